// Package schema is the static registry mapping a transport mode to its
// vehicle-type taxonomy and required-document catalog. It is a pure data
// lookup: no state, no errors, empty results for unrecognized modes so
// callers can render nothing instead of failing.
package schema

import "github.com/badaskaptan/kargomarket-sub000/internal/listing/model"

// VehicleGroup is one named group of vehicle-type options for a mode.
type VehicleGroup struct {
	Group   string   `json:"group"`
	Options []string `json:"options"`
}

// DocumentGroup is one sub-category of the document catalog. For every mode
// except sea the catalog is a single group with an empty Category name; the
// sea catalog is split into named sub-categories.
type DocumentGroup struct {
	Category string   `json:"category,omitempty"`
	Labels   []string `json:"labels"`
}

var vehicleTaxonomies = map[model.TransportMode][]VehicleGroup{
	model.TransportModeRoad: {
		{Group: "Trucks", Options: []string{
			"Tarpaulin truck", "Box truck", "Refrigerated truck", "Flatbed truck", "Tanker truck",
		}},
		{Group: "Light vehicles", Options: []string{
			"Panel van", "Pickup",
		}},
		{Group: "Trailers", Options: []string{
			"Lowbed trailer", "Container carrier", "Car carrier",
		}},
	},
	model.TransportModeSea: {
		{Group: "Dry cargo vessels", Options: []string{
			"General cargo ship", "Bulk carrier", "Container ship",
		}},
		{Group: "Liquid cargo vessels", Options: []string{
			"Oil tanker", "Chemical tanker", "LPG carrier",
		}},
		{Group: "Specialized vessels", Options: []string{
			"Ro-Ro vessel", "Reefer ship", "Heavy-lift vessel",
		}},
	},
	model.TransportModeAir: {
		{Group: "Freighters", Options: []string{
			"Dedicated cargo aircraft", "Passenger belly cargo", "Charter freighter",
		}},
	},
	model.TransportModeRail: {
		{Group: "Wagons", Options: []string{
			"Covered wagon", "Open wagon", "Flat wagon", "Tank wagon", "Container wagon",
		}},
	},
}

var documentCatalogs = map[model.TransportMode][]DocumentGroup{
	model.TransportModeRoad: {
		{Labels: []string{
			"CMR waybill", "Vehicle registration", "Driver licence",
			"Carrier liability insurance", "Customs declaration", "ADR certificate",
		}},
	},
	model.TransportModeSea: {
		{Category: "Vessel documents", Labels: []string{
			"Certificate of registry", "Tonnage certificate", "P&I insurance certificate",
			"Class certificate",
		}},
		{Category: "Cargo documents", Labels: []string{
			"Bill of lading", "Cargo manifest", "Dangerous goods declaration",
		}},
		{Category: "Port and customs", Labels: []string{
			"Port clearance", "Customs declaration", "Phytosanitary certificate",
		}},
	},
	model.TransportModeAir: {
		{Labels: []string{
			"Air waybill", "Export declaration", "Security declaration",
			"Dangerous goods declaration",
		}},
	},
	model.TransportModeRail: {
		{Labels: []string{
			"CIM consignment note", "Wagon list", "Customs declaration",
			"Loading gauge certificate",
		}},
	},
}

// VehicleTaxonomy returns the ordered vehicle-type groups for the given mode.
// Unknown modes yield an empty slice.
func VehicleTaxonomy(mode model.TransportMode) []VehicleGroup {
	groups, ok := vehicleTaxonomies[mode]
	if !ok {
		return []VehicleGroup{}
	}
	out := make([]VehicleGroup, len(groups))
	copy(out, groups)
	return out
}

// DocumentCatalog returns the ordered document groups for the given mode.
// Unknown modes yield an empty slice.
func DocumentCatalog(mode model.TransportMode) []DocumentGroup {
	groups, ok := documentCatalogs[mode]
	if !ok {
		return []DocumentGroup{}
	}
	out := make([]DocumentGroup, len(groups))
	copy(out, groups)
	return out
}

// DocumentLabels flattens the catalog for a mode into a single ordered label
// list, useful for membership checks against a draft's selections.
func DocumentLabels(mode model.TransportMode) []string {
	var labels []string
	for _, group := range documentCatalogs[mode] {
		labels = append(labels, group.Labels...)
	}
	return labels
}
