package risk

import "github.com/vladimiradmaev/diatrack/internal/domain"

const successMessage = "Prediction successful via risk predictor service."

// Normalize builds the caller facing prediction. Predictor fields are
// copied as is; the echoed inputs are exactly what was sent.
func Normalize(payload Payload, input domain.RiskQueryInput) domain.RiskPrediction {
	return domain.RiskPrediction{
		Success:         true,
		RiskLevel:       payload.RiskLevel,
		RiskProbability: payload.RiskProbability,
		Recommendation:  payload.Recommendation,
		ModelUsed:       payload.ModelUsed,
		AIReading:       input.LatestBloodSugar,
		CarbIntake:      input.CarbIntake,
		Activity:        input.Activity,
		Message:         successMessage,
	}
}
