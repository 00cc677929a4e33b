package jobs

import (
	"encoding/json"

	"github.com/rabbitmq/amqp091-go"
	"github.com/veedubyou/stem-separator/src/shared/lib/cerr"
	"github.com/veedubyou/stem-separator/src/shared/stems"
)

const SeparateStemsJobType = "separate_stems"

type SeparateStemsParams struct {
	TimelineID string      `json:"timeline_id"`
	Stems      stems.Count `json:"stems"`
}

func NewSeparateStemsMessage(params SeparateStemsParams) (amqp091.Publishing, error) {
	body, err := json.Marshal(params)
	if err != nil {
		return amqp091.Publishing{}, cerr.Field("params", params).
			Wrap(err).Error("Failed to marshal separate stems params")
	}

	return amqp091.Publishing{
		Type: SeparateStemsJobType,
		Body: body,
	}, nil
}

func ParseSeparateStemsMessage(body []byte) (SeparateStemsParams, error) {
	params := SeparateStemsParams{}
	if err := json.Unmarshal(body, &params); err != nil {
		return SeparateStemsParams{}, cerr.Wrap(err).Error("Failed to unmarshal message JSON")
	}

	if params.TimelineID == "" {
		return SeparateStemsParams{}, cerr.Error("Message has no timeline ID")
	}

	return params, nil
}
