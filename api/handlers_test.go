package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saqibullah/heart-disease-predictor/internal/classifier"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// tagTranslator marks every text with its target language.
type tagTranslator struct{}

func (tagTranslator) Translate(_ context.Context, texts []string, lang string) []string {
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = "[" + lang + "] " + t
	}
	return out
}

type failingClassifier struct{}

func (failingClassifier) Predict(context.Context, [][]float64) ([]int, error) {
	return nil, errors.New("model exploded")
}

func build(t *testing.T, a *classifier.Artifact) classifier.Classifier {
	t.Helper()
	c, err := classifier.Build(a.Kind, a)
	require.NoError(t, err)
	return c
}

func testRegistry(t *testing.T) *classifier.Registry {
	t.Helper()
	coef := make([]float64, 13)
	coef[0] = 0.1
	lr := build(t, &classifier.Artifact{Kind: classifier.KindLogistic, NFeatures: 13,
		Logistic: &classifier.LogisticParams{Coef: coef, Intercept: -5}})

	sv := make([]float64, 13)
	sv[0] = 1
	svm := build(t, &classifier.Artifact{Kind: classifier.KindSVM, NFeatures: 13, SVM: &classifier.SVMParams{
		Kernel: classifier.KernelLinear, SupportVectors: [][]float64{sv}, DualCoef: []float64{1}, Intercept: -50,
	}})

	rf := build(t, &classifier.Artifact{Kind: classifier.KindForest, NFeatures: 13, Forest: &classifier.ForestParams{
		Trees: []classifier.TreeParams{{
			ChildrenLeft:  []int{1, -1, -1},
			ChildrenRight: []int{2, -1, -1},
			Feature:       []int{0, -2, -2},
			Threshold:     []float64{50, -2, -2},
			Value:         [][]float64{{5, 5}, {4, 1}, {1, 4}},
		}},
	}})

	reg, err := classifier.NewRegistry(
		classifier.Entry{ID: "svm", Classifier: svm},
		classifier.Entry{ID: "rf", Classifier: rf},
		classifier.Entry{ID: "lr", Classifier: lr},
	)
	require.NoError(t, err)
	return reg
}

func newTestRouter(t *testing.T, reg *classifier.Registry) *gin.Engine {
	t.Helper()
	return NewRouter(NewHandler(reg, tagTranslator{}), RouterConfig{FrontendURL: "*", SessionSecret: "test-secret"})
}

func formValues(model string) url.Values {
	return url.Values{
		"age": {"63"}, "sex": {"1"}, "cp": {"3"}, "trestbps": {"145"}, "chol": {"233"},
		"fbs": {"1"}, "restecg": {"0"}, "thalach": {"150"}, "exang": {"0"}, "oldpeak": {"2.3"},
		"slope": {"0"}, "ca": {"0"}, "thal": {"1"}, "model": {model},
	}
}

func postForm(r http.Handler, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func postJSON(r http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHome(t *testing.T) {
	r := newTestRouter(t, testRegistry(t))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Heart Disease Prediction System")
	assert.Contains(t, w.Body.String(), `value="rf"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestHome_AcceptLanguage(t *testing.T) {
	r := newTestRouter(t, testRegistry(t))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "es-ES,es;q=0.9")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Contains(t, w.Body.String(), "[es] Heart Disease Prediction System")
	assert.Contains(t, w.Body.String(), `<html lang="es">`)
}

func TestPredictForm_Disease(t *testing.T) {
	w := postForm(newTestRouter(t, testRegistry(t)), "/predict", formValues("rf"))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Heart Disease Detected")
	assert.Contains(t, body, "80.00%")
	assert.Contains(t, body, "Random Forest")
	assert.Contains(t, body, "Please consult with a cardiologist")
}

func TestPredictForm_TranslatesModelTitle(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(formValues("rf").Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept-Language", "fr")
	w := httptest.NewRecorder()
	newTestRouter(t, testRegistry(t)).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<strong>[fr] Random Forest</strong> (rf)")
}

func TestPredictForm_Multipart(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range formValues("rf") {
		require.NoError(t, mw.WriteField(k, v[0]))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/predict", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	newTestRouter(t, testRegistry(t)).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Heart Disease Detected")
	assert.Contains(t, w.Body.String(), "80.00%")
}

func TestPredictForm_NoProbability(t *testing.T) {
	form := formValues("svm")
	form.Set("age", "40")
	w := postForm(newTestRouter(t, testRegistry(t)), "/predict", form)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "No Heart Disease Detected")
	assert.Contains(t, body, "Unknown (Model doesn")
	assert.NotContains(t, body, `class="probability"`)
	assert.Contains(t, body, "Continue maintaining a healthy lifestyle")
}

func TestPredictForm_ValidationErrors(t *testing.T) {
	form := formValues("rf")
	form.Del("age")
	form.Set("cp", "9")
	w := postForm(newTestRouter(t, testRegistry(t)), "/predict", form)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Missing required field: age")
	assert.NotContains(t, body, "Invalid option for cp")
	assert.Contains(t, body, `action="/predict"`)
}

func TestPredictForm_UnregisteredModel(t *testing.T) {
	lr := build(t, &classifier.Artifact{Kind: classifier.KindLogistic, NFeatures: 13,
		Logistic: &classifier.LogisticParams{Coef: make([]float64, 13)}})
	reg, err := classifier.NewRegistry(classifier.Entry{ID: "lr", Classifier: lr})
	require.NoError(t, err)

	w := postForm(newTestRouter(t, reg), "/predict", formValues("rf"))
	assert.Contains(t, w.Body.String(), "Invalid model selection")
}

func TestPredictForm_FailureIsGeneric(t *testing.T) {
	reg, err := classifier.NewRegistry(classifier.Entry{ID: "lr", Classifier: failingClassifier{}})
	require.NoError(t, err)

	w := postForm(newTestRouter(t, reg), "/predict", formValues("lr"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "An error occurred during prediction. Please try again.")
	assert.NotContains(t, w.Body.String(), "model exploded")
}

func TestSetLanguage_TranslatesErrors(t *testing.T) {
	r := newTestRouter(t, testRegistry(t))

	req := httptest.NewRequest(http.MethodPost, "/set_language", strings.NewReader("lang=fr"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["success"])

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	form := formValues("rf")
	form.Set("age", "101")
	w = postForm(r, "/predict", form, cookies...)
	assert.Contains(t, w.Body.String(), "[fr] age must be between 20 and 100")
	assert.Contains(t, w.Body.String(), "[fr] Heart Disease Prediction System")
}

func TestSetLanguage_Redirect(t *testing.T) {
	r := newTestRouter(t, testRegistry(t))

	req := httptest.NewRequest(http.MethodPost, "/set_language", strings.NewReader("lang=klingon"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Referer", "/somewhere")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/somewhere", w.Header().Get("Location"))

	// Unsupported codes are stored as English, so nothing is translated.
	w = postForm(r, "/predict", url.Values{}, w.Result().Cookies()...)
	assert.Contains(t, w.Body.String(), "Missing required field: age")
	assert.NotContains(t, w.Body.String(), "[klingon]")

	req = httptest.NewRequest(http.MethodPost, "/set_language", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestPredictAPI_WithProbability(t *testing.T) {
	w := postJSON(newTestRouter(t, testRegistry(t)), `{
		"age": 63, "sex": 1, "cp": 3, "trestbps": 145, "chol": 233, "fbs": 1, "restecg": 0,
		"thalach": 150, "exang": 0, "oldpeak": 2.3, "slope": 0, "ca": 0, "thal": 1, "model": "lr"
	}`)

	require.Equal(t, http.StatusOK, w.Code)
	out := decode(t, w)
	assert.Equal(t, 1.0, out["prediction"])
	assert.Equal(t, 78.58, out["probability"])
}

func TestPredictAPI_WithoutProbability(t *testing.T) {
	w := postJSON(newTestRouter(t, testRegistry(t)), `{
		"age": "40", "sex": "1", "cp": "3", "trestbps": "145", "chol": "233", "fbs": "1", "restecg": "0",
		"thalach": "150", "exang": "0", "oldpeak": "2.3", "slope": "0", "ca": "0", "thal": "1", "model": "svm"
	}`)

	require.Equal(t, http.StatusOK, w.Code)
	out := decode(t, w)
	assert.Equal(t, 0.0, out["prediction"])
	assert.NotContains(t, out, "probability")
}

func TestPredictAPI_ValidationErrors(t *testing.T) {
	w := postJSON(newTestRouter(t, testRegistry(t)), `{"age": 19}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	errs, ok := decode(t, w)["error"].([]any)
	require.True(t, ok)
	assert.Len(t, errs, 13)
	assert.Equal(t, "Missing required field: trestbps", errs[0])
}

func TestPredictAPI_UnknownOption(t *testing.T) {
	w := postJSON(newTestRouter(t, testRegistry(t)), `{
		"age": 63, "sex": 1, "cp": 3, "trestbps": 145, "chol": 233, "fbs": 1, "restecg": 0,
		"thalach": 150, "exang": 0, "oldpeak": 2.3, "slope": 0, "ca": 0, "thal": 1, "model": "xgboost"
	}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []any{"Invalid option for model: xgboost"}, decode(t, w)["error"])
}

func TestPredictAPI_BadBody(t *testing.T) {
	w := postJSON(newTestRouter(t, testRegistry(t)), `[1, 2, 3]`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["error"], "invalid request body")
}

func TestPredictAPI_RawFailure(t *testing.T) {
	reg, err := classifier.NewRegistry(classifier.Entry{ID: "lr", Classifier: failingClassifier{}})
	require.NoError(t, err)

	body, err := json.Marshal(formValuesJSON("lr"))
	require.NoError(t, err)
	w := postJSON(newTestRouter(t, reg), string(body))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["error"], "model exploded")
}

func TestPredictAPI_UnregisteredModel(t *testing.T) {
	reg, err := classifier.NewRegistry(classifier.Entry{ID: "lr", Classifier: failingClassifier{}})
	require.NoError(t, err)

	body, err := json.Marshal(formValuesJSON("svm"))
	require.NoError(t, err)
	w := postJSON(newTestRouter(t, reg), string(body))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid model selection", decode(t, w)["error"])
}

func formValuesJSON(model string) map[string]string {
	out := map[string]string{}
	for k, v := range formValues(model) {
		out[k] = v[0]
	}
	return out
}

func TestModelsAndHealth(t *testing.T) {
	r := newTestRouter(t, testRegistry(t))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/models", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var models struct {
		Models []modelInfo `json:"models"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &models))
	assert.Equal(t, []modelInfo{
		{ID: "svm", Name: "Support Vector Machine", Probability: false},
		{ID: "rf", Name: "Random Forest", Probability: true},
		{ID: "lr", Name: "Logistic Regression", Probability: true},
	}, models.Models)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	out := decode(t, w)
	assert.Equal(t, "healthy", out["status"])
	assert.Equal(t, []any{"svm", "rf", "lr"}, out["models"])
}

func TestRequestID_Propagates(t *testing.T) {
	r := newTestRouter(t, testRegistry(t))
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestCORS(t *testing.T) {
	r := NewRouter(NewHandler(testRegistry(t), tagTranslator{}), RouterConfig{
		FrontendURL:   "https://app.example.com",
		SessionSecret: "test-secret",
	})
	req := httptest.NewRequest(http.MethodOptions, "/api/predict", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}
