package model

// ListingPayload is the client-submitted listing body (the `payload` part of
// the multipart submission request).
type ListingPayload struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`

	LoadingDate  string `json:"loadingDate"`
	DeliveryDate string `json:"deliveryDate"`

	Weight MeasurementInput `json:"weight"`
	Volume MeasurementInput `json:"volume"`
	Price  PriceInput       `json:"price"`

	TransportResponsibility string `json:"transportResponsibility"`

	TransportMode string       `json:"transportMode"`
	Road          *RoadDetails `json:"roadDetails,omitempty"`
	Sea           *SeaDetails  `json:"seaDetails,omitempty"`
	Air           *AirDetails  `json:"airDetails,omitempty"`
	Rail          *RailDetails `json:"railDetails,omitempty"`

	SelectedDocuments []string `json:"selectedDocuments"`
}

// SubmissionResponse is what the submission endpoints return to the client.
type SubmissionResponse struct {
	Listing   *Listing `json:"listing"`
	Outcome   string   `json:"outcome"`
	Message   string   `json:"message"`
	AssetURLs []string `json:"assetUrls"`
	Failed    []string `json:"failedFiles,omitempty"`
}
