package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/badaskaptan/kargomarket-sub000/internal/listing/model"
)

// validRoadDraft builds a load listing that passes every rule.
func validRoadDraft() *model.ListingDraft {
	draft := NewDraft(model.ListingTypeLoad)
	draft.Title = "Steel coils Istanbul to Hamburg"
	draft.Description = "40 coils, tarpaulin required"
	draft.Origin = "Istanbul"
	draft.Destination = "Hamburg"
	draft.LoadingDate = "2026-09-15"
	draft.Weight = model.MeasurementInput{Value: "10.5", Unit: "t"}
	draft.Volume = model.MeasurementInput{Value: "25.0", Unit: "m3"}
	*draft = ApplyTransportMode(*draft, model.TransportModeRoad)
	return draft
}

func TestValidate(t *testing.T) {
	t.Run("a complete road draft is valid", func(t *testing.T) {
		assert.Nil(t, Validate(validRoadDraft()))
	})

	tests := []struct {
		name    string
		mutate  func(d *model.ListingDraft)
		field   string
		message string
	}{
		{
			name:   "missing title",
			mutate: func(d *model.ListingDraft) { d.Title = "" },
			field:  "title",
		},
		{
			name:   "missing description",
			mutate: func(d *model.ListingDraft) { d.Description = "" },
			field:  "description",
		},
		{
			name:   "missing origin",
			mutate: func(d *model.ListingDraft) { d.Origin = "" },
			field:  "origin",
		},
		{
			name:   "missing transport mode",
			mutate: func(d *model.ListingDraft) { d.Mode = nil },
			field:  "transportMode",
		},
		{
			name:   "missing weight",
			mutate: func(d *model.ListingDraft) { d.Weight.Value = "" },
			field:  "weight",
		},
		{
			name:    "non-numeric weight is a validation failure, not a crash",
			mutate:  func(d *model.ListingDraft) { d.Weight.Value = "abc" },
			field:   "weight",
			message: "weight must be a number",
		},
		{
			name:   "negative weight",
			mutate: func(d *model.ListingDraft) { d.Weight.Value = "-1" },
			field:  "weight",
		},
		{
			name:   "weight above the ceiling",
			mutate: func(d *model.ListingDraft) { d.Weight.Value = "1000000" },
			field:  "weight",
		},
		{
			name:   "negative volume",
			mutate: func(d *model.ListingDraft) { d.Volume.Value = "-3" },
			field:  "volume",
		},
		{
			name:   "fixed pricing without an amount",
			mutate: func(d *model.ListingDraft) { d.Price.Mode = model.PricingModeFixed },
			field:  "price",
		},
		{
			name: "fixed price above the ceiling",
			mutate: func(d *model.ListingDraft) {
				d.Price.Mode = model.PricingModeFixed
				d.Price.Amount = "1000000000"
			},
			field: "price",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			draft := validRoadDraft()
			tc.mutate(draft)

			verr := Validate(draft)
			assert.NotNil(t, verr)
			assert.Equal(t, tc.field, verr.Field)
			if tc.message != "" {
				assert.Equal(t, tc.message, verr.Message)
			}
		})
	}

	t.Run("boundary weights", func(t *testing.T) {
		draft := validRoadDraft()
		draft.Weight.Value = "999999"
		assert.Nil(t, Validate(draft))

		draft.Weight.Value = "10.5"
		assert.Nil(t, Validate(draft))
	})

	t.Run("sea draft with blank vessel fields reports the mode-specific field", func(t *testing.T) {
		draft := validRoadDraft()
		*draft = ApplyTransportMode(*draft, model.TransportModeSea)

		verr := Validate(draft)
		assert.NotNil(t, verr)
		assert.Equal(t, "shipName", verr.Field)

		draft.Mode.Sea.ShipName = "MV Ege"
		verr = Validate(draft)
		assert.NotNil(t, verr)
		assert.Equal(t, "imoNumber", verr.Field)

		draft.Mode.Sea.IMONumber = "9074729"
		verr = Validate(draft)
		assert.NotNil(t, verr)
		assert.Equal(t, "mmsiNumber", verr.Field)

		draft.Mode.Sea.MMSINumber = "271000001"
		assert.Nil(t, Validate(draft))
	})

	t.Run("negotiable pricing ignores a typed amount", func(t *testing.T) {
		draft := validRoadDraft()
		draft.Price.Mode = model.PricingModeNegotiable
		draft.Price.Amount = "not-a-number"
		assert.Nil(t, Validate(draft))
	})

	t.Run("transport-service offers may omit origin and destination", func(t *testing.T) {
		draft := NewDraft(model.ListingTypeTransport)
		draft.Title = "Reefer truck available"
		draft.Description = "Weekly departures"
		draft.Weight = model.MeasurementInput{Value: "24", Unit: "t"}
		*draft = ApplyTransportMode(*draft, model.TransportModeRoad)
		assert.Nil(t, Validate(draft))
	})

	t.Run("first violation wins over later ones", func(t *testing.T) {
		draft := validRoadDraft()
		draft.Title = ""
		draft.Weight.Value = "-5"

		verr := Validate(draft)
		assert.NotNil(t, verr)
		assert.Equal(t, "title", verr.Field)
	})
}
