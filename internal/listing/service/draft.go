package service

import (
	"time"

	"github.com/badaskaptan/kargomarket-sub000/internal/listing/model"
)

// NewDraft creates a fresh draft for the given listing type with defaults.
// The display number is generated here, once, and never recomputed.
func NewDraft(t model.ListingType) *model.ListingDraft {
	return &model.ListingDraft{
		DisplayNo: newDisplayNo(t, time.Now()),
		Type:      t,
		Weight:    model.MeasurementInput{Unit: "t"},
		Volume:    model.MeasurementInput{Unit: "m3"},
		Price:     model.PriceInput{Currency: "USD", Mode: model.PricingModeNegotiable},
	}
}

// newDisplayNo builds the cosmetic listing number: type prefix plus a compact
// UTC timestamp, e.g. ILN260830141502.
func newDisplayNo(t model.ListingType, now time.Time) string {
	return t.DisplayPrefix() + now.UTC().Format("060102150405")
}

// ApplyTransportMode is the pure reducer for a transport mode change.
// Selecting a mode is destructive: every other mode's fields reset to their
// zero variant and the document selection empties, because both are scoped to
// the schema of the active mode. Attached files survive a mode change.
func ApplyTransportMode(draft model.ListingDraft, mode model.TransportMode) model.ListingDraft {
	draft.Mode = model.NewModeDetails(mode)
	draft.SelectedDocuments = nil
	return draft
}

// ToggleDocumentLabel flips the label's membership in the draft's document
// selection. Adding a present label removes it; the operation is its own
// inverse. It has no upload side effects.
func ToggleDocumentLabel(draft *model.ListingDraft, label string) {
	for i, l := range draft.SelectedDocuments {
		if l == label {
			draft.SelectedDocuments = append(draft.SelectedDocuments[:i], draft.SelectedDocuments[i+1:]...)
			return
		}
	}
	draft.SelectedDocuments = append(draft.SelectedDocuments, label)
}

// BindPayload builds a draft from a client payload. Binding never validates:
// bad values are carried into the draft verbatim and reported by Validate at
// submission time. Mode detail sections that do not match the declared
// transport mode are discarded, preserving the one-active-variant invariant.
func BindPayload(payload *model.ListingPayload) *model.ListingDraft {
	draft := NewDraft(model.ListingType(payload.Type))
	draft.Title = payload.Title
	draft.Description = payload.Description
	draft.Origin = payload.Origin
	draft.Destination = payload.Destination
	draft.LoadingDate = payload.LoadingDate
	draft.DeliveryDate = payload.DeliveryDate
	if payload.Weight != (model.MeasurementInput{}) {
		draft.Weight = payload.Weight
	}
	if payload.Volume != (model.MeasurementInput{}) {
		draft.Volume = payload.Volume
	}
	if payload.Price != (model.PriceInput{}) {
		draft.Price = payload.Price
	}
	draft.TransportResponsibility = payload.TransportResponsibility

	mode := model.TransportMode(payload.TransportMode)
	if mode != "" {
		*draft = ApplyTransportMode(*draft, mode)
		switch mode {
		case model.TransportModeRoad:
			if payload.Road != nil {
				draft.Mode.Road = payload.Road
			}
		case model.TransportModeSea:
			if payload.Sea != nil {
				draft.Mode.Sea = payload.Sea
			}
		case model.TransportModeAir:
			if payload.Air != nil {
				draft.Mode.Air = payload.Air
			}
		case model.TransportModeRail:
			if payload.Rail != nil {
				draft.Mode.Rail = payload.Rail
			}
		}
		for _, label := range payload.SelectedDocuments {
			ToggleDocumentLabel(draft, label)
		}
	}

	return draft
}

// SeedDraftFromListing pre-seeds an edit-mode draft from a fetched record.
// The stored display number is reused so the cosmetic identity survives edits.
func SeedDraftFromListing(listing *model.Listing) *model.ListingDraft {
	draft := NewDraft(listing.Type)
	draft.DisplayNo = listing.DisplayNo
	draft.Title = listing.Title
	draft.Description = listing.Description
	draft.Origin = deref(listing.Origin)
	draft.Destination = deref(listing.Destination)
	draft.LoadingDate = deref(listing.LoadingDate)
	draft.DeliveryDate = deref(listing.DeliveryDate)
	draft.Weight = measurementFromRecord(listing.WeightValue, listing.WeightUnit, draft.Weight.Unit)
	draft.Volume = measurementFromRecord(listing.VolumeValue, listing.VolumeUnit, draft.Volume.Unit)
	if listing.PricingMode != nil {
		draft.Price.Mode = *listing.PricingMode
	}
	if listing.PriceCurrency != nil {
		draft.Price.Currency = *listing.PriceCurrency
	}
	if listing.PriceAmount != nil {
		draft.Price.Amount = formatFloat(*listing.PriceAmount)
	}
	draft.TransportResponsibility = deref(listing.TransportResponsibility)
	if listing.TransportMode.Valid() {
		*draft = ApplyTransportMode(*draft, listing.TransportMode)
		if listing.ModeDetails != nil && listing.ModeDetails.Mode == listing.TransportMode {
			draft.Mode = listing.ModeDetails
		}
		for _, label := range listing.DocumentLabels {
			ToggleDocumentLabel(draft, label)
		}
	}
	return draft
}

func measurementFromRecord(value *float64, unit *string, defaultUnit string) model.MeasurementInput {
	m := model.MeasurementInput{Unit: defaultUnit}
	if unit != nil {
		m.Unit = *unit
	}
	if value != nil {
		m.Value = formatFloat(*value)
	}
	return m
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
