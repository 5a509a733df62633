// internal/workers/reading/assemble-response/models.go
package assembleresponse

import "moonlight-diary/internal/models"

type Input struct {
	Reading models.StructuredReading `json:"reading"`
}
