package model

// ListingType identifies which kind of marketplace listing is being published.
type ListingType string

const (
	// ListingTypeLoad is a cargo-load offer published by a shipper.
	ListingTypeLoad ListingType = "LOAD_LISTING"
	// ListingTypeShipment is a shipment request looking for a carrier.
	ListingTypeShipment ListingType = "SHIPMENT_REQUEST"
	// ListingTypeTransport is a transport-service offer published by a carrier.
	ListingTypeTransport ListingType = "TRANSPORT_SERVICE"
)

// Valid reports whether t is a known listing type.
func (t ListingType) Valid() bool {
	switch t {
	case ListingTypeLoad, ListingTypeShipment, ListingTypeTransport:
		return true
	}
	return false
}

// DisplayPrefix returns the two/three-letter prefix used when generating
// a listing's display number.
func (t ListingType) DisplayPrefix() string {
	switch t {
	case ListingTypeLoad:
		return "ILN"
	case ListingTypeShipment:
		return "NT"
	case ListingTypeTransport:
		return "NK"
	}
	return "LS"
}

// TransportMode is the carriage method that determines which schema variant applies.
type TransportMode string

const (
	TransportModeRoad TransportMode = "ROAD"
	TransportModeSea  TransportMode = "SEA"
	TransportModeAir  TransportMode = "AIR"
	TransportModeRail TransportMode = "RAIL"
)

// Valid reports whether m is a known transport mode.
func (m TransportMode) Valid() bool {
	switch m {
	case TransportModeRoad, TransportModeSea, TransportModeAir, TransportModeRail:
		return true
	}
	return false
}

// PricingMode distinguishes a fixed asking price from an open negotiation.
type PricingMode string

const (
	PricingModeFixed      PricingMode = "FIXED"
	PricingModeNegotiable PricingMode = "NEGOTIABLE"
)

// ListingStatus is the lifecycle state of a persisted listing record.
type ListingStatus string

const (
	ListingStatusActive ListingStatus = "ACTIVE"
	ListingStatusPaused ListingStatus = "PAUSED"
	ListingStatusClosed ListingStatus = "CLOSED"
)

// RoadDetails holds the fields that only exist while the road mode is active.
type RoadDetails struct {
	PlateNumber string `json:"plateNumber"`
}

// SeaDetails holds the fields that only exist while the sea mode is active.
type SeaDetails struct {
	ShipName   string `json:"shipName"`
	IMONumber  string `json:"imoNumber"`
	MMSINumber string `json:"mmsiNumber"`
	DWTTons    string `json:"dwtTons"`
}

// AirDetails holds the fields that only exist while the air mode is active.
type AirDetails struct {
	FlightNumber string `json:"flightNumber"`
}

// RailDetails holds the fields that only exist while the rail mode is active.
type RailDetails struct {
	TrainNumber string `json:"trainNumber"`
}

// ModeDetails is a tagged union over the per-mode field sets. Exactly the
// variant matching Mode is non-nil; all others are nil. This makes "field does
// not apply in this mode" a structural property instead of a convention over
// nullable columns.
type ModeDetails struct {
	Mode TransportMode `json:"mode"`
	Road *RoadDetails  `json:"road,omitempty"`
	Sea  *SeaDetails   `json:"sea,omitempty"`
	Air  *AirDetails   `json:"air,omitempty"`
	Rail *RailDetails  `json:"rail,omitempty"`
}

// NewModeDetails returns a ModeDetails with the zero variant for the given
// mode activated and every other variant nil.
func NewModeDetails(mode TransportMode) *ModeDetails {
	d := &ModeDetails{Mode: mode}
	switch mode {
	case TransportModeRoad:
		d.Road = &RoadDetails{}
	case TransportModeSea:
		d.Sea = &SeaDetails{}
	case TransportModeAir:
		d.Air = &AirDetails{}
	case TransportModeRail:
		d.Rail = &RailDetails{}
	}
	return d
}

// MeasurementInput is a numeric form field held as the raw user string plus a
// unit, so a failed parse can be surfaced without losing the user's input.
type MeasurementInput struct {
	Value string `json:"value"`
	Unit  string `json:"unit"`
}

// PriceInput is the optional price section of a draft. Amount is kept raw for
// the same reason as MeasurementInput.
type PriceInput struct {
	Amount   string      `json:"amount"`
	Currency string      `json:"currency"`
	Mode     PricingMode `json:"mode"`
}

// Listing is the persisted marketplace listing record.
// Empty optional fields are stored as NULL via pointer columns, never as
// empty strings.
type Listing struct {
	BaseModel
	OwnerID                 string         `gorm:"type:varchar(100);column:owner_id;not null;index" json:"ownerId"`
	Type                    ListingType    `gorm:"type:varchar(32);column:listing_type;not null" json:"type"`
	DisplayNo               string         `gorm:"type:varchar(32);column:display_no;not null" json:"displayNo"`
	Title                   string         `gorm:"type:varchar(255);column:title;not null" json:"title"`
	Description             string         `gorm:"type:text;column:description;not null" json:"description"`
	Origin                  *string        `gorm:"type:varchar(255);column:origin" json:"origin,omitempty"`
	Destination             *string        `gorm:"type:varchar(255);column:destination" json:"destination,omitempty"`
	LoadingDate             *string        `gorm:"type:varchar(32);column:loading_date" json:"loadingDate,omitempty"`
	DeliveryDate            *string        `gorm:"type:varchar(32);column:delivery_date" json:"deliveryDate,omitempty"`
	WeightValue             *float64       `gorm:"column:weight_value" json:"weightValue,omitempty"`
	WeightUnit              *string        `gorm:"type:varchar(16);column:weight_unit" json:"weightUnit,omitempty"`
	VolumeValue             *float64       `gorm:"column:volume_value" json:"volumeValue,omitempty"`
	VolumeUnit              *string        `gorm:"type:varchar(16);column:volume_unit" json:"volumeUnit,omitempty"`
	PriceAmount             *float64       `gorm:"column:price_amount" json:"priceAmount,omitempty"`
	PriceCurrency           *string        `gorm:"type:varchar(8);column:price_currency" json:"priceCurrency,omitempty"`
	PricingMode             *PricingMode   `gorm:"type:varchar(16);column:pricing_mode" json:"pricingMode,omitempty"`
	TransportResponsibility *string        `gorm:"type:varchar(32);column:transport_responsibility" json:"transportResponsibility,omitempty"`
	TransportMode           TransportMode  `gorm:"type:varchar(16);column:transport_mode;not null" json:"transportMode"`
	ModeDetails             *ModeDetails   `gorm:"type:jsonb;column:mode_details;serializer:json" json:"modeDetails,omitempty"`
	DocumentLabels          []string       `gorm:"type:jsonb;column:document_labels;serializer:json" json:"documentLabels"`
	AssetURLs               []string       `gorm:"type:jsonb;column:asset_urls;serializer:json" json:"assetUrls"`
	Status                  ListingStatus  `gorm:"type:varchar(16);column:status;not null;default:'ACTIVE'" json:"status"`
}

// TableName specifies the database table name for Listing.
func (l *Listing) TableName() string {
	return "listings"
}

// ListingFilter narrows listing queries.
// Offset and Limit default when nil; see utils.GetPaginationParams.
type ListingFilter struct {
	OwnerID *string
	Type    *ListingType
	Status  *ListingStatus
	Offset  *int
	Limit   *int
}
