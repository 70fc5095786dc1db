package handler

// CreateVINRequest is the body of POST /v1/vins and /v1/vins/batch.
// A nil sequence asks the service to allocate from the durable store.
type CreateVINRequest struct {
	ManufacturerCode string `json:"manufacturer_code"`
	Descriptor       string `json:"descriptor"`
	Year             int    `json:"year"`
	PlantCode        string `json:"plant_code"`
	Sequence         *int64 `json:"sequence,omitempty"`
	Quantity         int    `json:"quantity,omitempty"`
}

// CreateVINFromPrefixRequest is the body of POST /v1/vins/from-prefix.
// Query is an exact WMI code, a manufacturer name or a country.
type CreateVINFromPrefixRequest struct {
	Query      string `json:"query"`
	Descriptor string `json:"descriptor"`
	Year       int    `json:"year"`
	PlantCode  string `json:"plant_code"`
	Quantity   int    `json:"quantity,omitempty"`
}

// CreateChassisRequest is the body of POST /v1/chassis and
// /v1/chassis/batch.
type CreateChassisRequest struct {
	Template string           `json:"template"`
	Fields   map[string]int64 `json:"fields,omitempty"`
	Serial   *int64           `json:"serial,omitempty"`
	Quantity int              `json:"quantity,omitempty"`
}

// CreateRandomRequest is the body of POST /v1/identifiers/random.
type CreateRandomRequest struct {
	Kind     string `json:"kind"`
	Quantity int    `json:"quantity,omitempty"`
}

// ContinueSequenceRequest is the body of POST /v1/sequences/continue.
type ContinueSequenceRequest struct {
	Existing []string `json:"existing"`
	Quantity int      `json:"quantity"`
}

// ValidateRequest is the body of POST /v1/validations.
type ValidateRequest struct {
	Identifier string `json:"identifier"`
}

// ResetSequenceRequest is the body of POST /admin/sequences/reset.
type ResetSequenceRequest struct {
	Key string `json:"key"`
}
