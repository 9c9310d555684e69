package i18n

// Content is a table of UI strings keyed by template slot.
type Content map[string]string

// Messages shown outside the string tables.
const (
	MsgPredictionError = "An error occurred during prediction. Please try again."
	MsgInvalidModel    = "Invalid model selection"
)

// FormContent holds the strings of the input form page.
var FormContent = Content{
	"title":           "Heart Disease Prediction System",
	"subtitle":        "Enter patient information to predict heart disease risk",
	"model_selection": "Model Selection",
	"choose_model":    "Choose a prediction model:",
	"svm":             "Support Vector Machine",
	"rf":              "Random Forest",
	"lr":              "Logistic Regression",
	"numerical":       "Numerical Measurements",
	"binary":          "Binary Features",
	"categorical":     "Categorical Features",
	"predict_button":  "Predict Heart Disease Risk",
	"age_label":       "Age: ",
	"trestbps_label":  "Resting Blood Pressure (mm Hg):",
	"chol_label":      "Serum Cholesterol (mg/dl):",
	"thalach_label":   "Max Heart Rate Achieved:",
	"oldpeak_label":   "ST Depression (Oldpeak):",
	"m":               "Male",
	"f":               "Female",
	"sex_label":       "Enter Sex:",
	"fbs_label":       "Fasting Blood Sugar > 120 mg/dl?:",
	"n":               "No",
	"y":               "Yes",
	"exang_label":     "Exercise-Induced Angina:",
	"cp_label":        "Chest Pain Type:",
	"np":              "No Pain",
	"ta":              "Typical Angina",
	"aa":              "Atypical Angina",
	"nap":             "Non-anginal Pain",
	"asy":             "Asymptomatic",
	"restecg_label":   "Resting ECG:",
	"normal":          "Normal",
	"stt":             "ST-T Wave Abnormality",
	"lvh":             "Left Ventricular Hypertrophy",
	"slope_label":     "Slope of ST Segment:",
	"u":               "Up",
	"fl":              "Flat",
	"d":               "Down",
	"ca_label":        "Number of Major Vessels (0-4):",
	"thal_label":      "Thalassemia Type:",
	"fd":              "Fixed Defect",
	"rd":              "Reversible Defect",
}

// ResultContent holds the strings of the result page.
var ResultContent = Content{
	"result_title":            "Heart Disease Prediction Results",
	"disease_detected":        "Heart Disease Detected",
	"no_disease_detected":     "No Heart Disease Detected",
	"model_used":              "Model used:",
	"risk_probability":        "Risk probability:",
	"unknown_probability":     "Unknown (Model doesn't provide probabilities)",
	"recommendation_title":    "Recommendation:",
	"positive_recommendation": "Please consult with a cardiologist as soon as possible for further evaluation and treatment options.",
	"negative_recommendation": "Continue maintaining a healthy lifestyle with regular exercise and balanced diet. Schedule routine check-ups as recommended by your healthcare provider.",
	"another_prediction":      "Make Another Prediction",
}
