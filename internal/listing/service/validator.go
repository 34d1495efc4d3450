package service

import (
	"strconv"

	"github.com/badaskaptan/kargomarket-sub000/internal/listing/model"
)

// Domain-sane ceilings for the numeric draft fields.
const (
	MaxWeightTons  = 999_999
	MaxVolumeCubic = 999_999
	MaxPriceAmount = 999_999_999
)

// Validate answers "is this draft submittable?". Rules are evaluated in a
// fixed order so the reported message is deterministic: common required
// fields, then the transport mode and its mode-specific fields, then numeric
// parse/range checks, then cross-field pricing rules. Only the first
// violation is reported, matching the one-toast-per-failure surface.
//
// A nil result means the draft is valid.
func Validate(draft *model.ListingDraft) *ValidationError {
	if !draft.Type.Valid() {
		return &ValidationError{Field: "type", Message: "unknown listing type"}
	}

	if err := validateCommonFields(draft); err != nil {
		return err
	}
	if err := validateModeFields(draft); err != nil {
		return err
	}
	if err := validateNumericFields(draft); err != nil {
		return err
	}
	return validatePricing(draft)
}

func validateCommonFields(draft *model.ListingDraft) *ValidationError {
	if draft.Title == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if draft.Description == "" {
		return &ValidationError{Field: "description", Message: "description is required"}
	}

	// A transport-service offer covers a service region rather than a fixed
	// lane, so origin/destination and the loading date stay optional there.
	if draft.Type != model.ListingTypeTransport {
		if draft.Origin == "" {
			return &ValidationError{Field: "origin", Message: "origin is required"}
		}
		if draft.Destination == "" {
			return &ValidationError{Field: "destination", Message: "destination is required"}
		}
		if draft.LoadingDate == "" {
			return &ValidationError{Field: "loadingDate", Message: "loading date is required"}
		}
	}
	return nil
}

func validateModeFields(draft *model.ListingDraft) *ValidationError {
	if draft.Mode == nil {
		return &ValidationError{Field: "transportMode", Message: "transport mode is required"}
	}
	if !draft.Mode.Mode.Valid() {
		return &ValidationError{Field: "transportMode", Message: "unknown transport mode"}
	}

	// Sea listings identify a concrete vessel; the other modes' extra fields
	// are informational and may stay empty.
	if sea := draft.Mode.Sea; draft.Mode.Mode == model.TransportModeSea {
		if sea == nil || sea.ShipName == "" {
			return &ValidationError{Field: "shipName", Message: "ship name is required for sea transport"}
		}
		if sea.IMONumber == "" {
			return &ValidationError{Field: "imoNumber", Message: "IMO number is required for sea transport"}
		}
		if sea.MMSINumber == "" {
			return &ValidationError{Field: "mmsiNumber", Message: "MMSI number is required for sea transport"}
		}
	}
	return nil
}

func validateNumericFields(draft *model.ListingDraft) *ValidationError {
	if draft.Weight.Value == "" {
		return &ValidationError{Field: "weight", Message: "weight is required"}
	}
	weight, err := strconv.ParseFloat(draft.Weight.Value, 64)
	if err != nil {
		return &ValidationError{Field: "weight", Message: "weight must be a number"}
	}
	if weight <= 0 {
		return &ValidationError{Field: "weight", Message: "weight must be greater than zero"}
	}
	if weight > MaxWeightTons {
		return &ValidationError{Field: "weight", Message: "weight exceeds the allowed maximum"}
	}

	if draft.Volume.Value != "" {
		volume, err := strconv.ParseFloat(draft.Volume.Value, 64)
		if err != nil {
			return &ValidationError{Field: "volume", Message: "volume must be a number"}
		}
		if volume < 0 {
			return &ValidationError{Field: "volume", Message: "volume cannot be negative"}
		}
		if volume > MaxVolumeCubic {
			return &ValidationError{Field: "volume", Message: "volume exceeds the allowed maximum"}
		}
	}
	return nil
}

func validatePricing(draft *model.ListingDraft) *ValidationError {
	switch draft.Price.Mode {
	case model.PricingModeFixed:
		if draft.Price.Amount == "" {
			return &ValidationError{Field: "price", Message: "a price amount is required for fixed pricing"}
		}
		amount, err := strconv.ParseFloat(draft.Price.Amount, 64)
		if err != nil {
			return &ValidationError{Field: "price", Message: "price must be a number"}
		}
		if amount <= 0 {
			return &ValidationError{Field: "price", Message: "price must be greater than zero"}
		}
		if amount > MaxPriceAmount {
			return &ValidationError{Field: "price", Message: "price exceeds the allowed maximum"}
		}
	case model.PricingModeNegotiable, "":
		// Any typed amount is ignored for negotiable pricing.
	default:
		return &ValidationError{Field: "price", Message: "unknown pricing mode"}
	}
	return nil
}

// formatFloat renders a stored numeric value back into form-field shape.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
