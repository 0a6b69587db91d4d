package form

import (
	"net/mail"
	"strconv"
	"strings"
)

// Field identifiers shared by both schemas.
const (
	FieldFullName   = "full_name"
	FieldEmail      = "email"
	FieldNationalID = "national_id"

	FieldAssetDescription = "asset_description"
	FieldAmountRequested  = "amount_requested"
	FieldTermMonths       = "term_months"

	FieldAssetName      = "asset_name"
	FieldAssetType      = "asset_type"
	FieldEstimatedValue = "estimated_value"
	FieldSerialNumber   = "serial_number"
)

const (
	maxTermMonths       = 360
	minTokenizationDocs = 2
)

var assetTypes = map[string]bool{
	"real_estate": true,
	"vehicle":     true,
	"equipment":   true,
	"commodity":   true,
	"other":       true,
}

var financingSteps = []StepDefinition{
	{ID: 0, Name: "applicant_details", Kind: StepFields, Validate: validateApplicant(0)},
	{ID: 1, Name: "financing_details", Kind: StepFields, Validate: validateFinancing},
	{ID: 2, Name: "selfie_capture", Kind: StepMedia, MediaRole: RoleSelfie, Validate: requireMedia(2, RoleSelfie, 1)},
}

var tokenizationSteps = []StepDefinition{
	{ID: 0, Name: "applicant_details", Kind: StepFields, Validate: validateApplicant(0)},
	{ID: 1, Name: "asset_details", Kind: StepFields, Validate: validateAsset},
	{ID: 2, Name: "asset_photos", Kind: StepMedia, MediaRole: RoleAssetPhoto, Validate: requireMedia(2, RoleAssetPhoto, minTokenizationDocs)},
	{ID: 3, Name: "selfie_capture", Kind: StepMedia, MediaRole: RoleSelfie, Validate: requireMedia(3, RoleSelfie, 1)},
}

// validateApplicant covers the personal-details step shared by both forms.
func validateApplicant(stepID int) func(State) error {
	return func(s State) error {
		if strings.TrimSpace(s.Field(FieldFullName)) == "" {
			return &ValidationError{StepID: stepID, FieldID: FieldFullName, Message: "full name is required"}
		}
		email := strings.TrimSpace(s.Field(FieldEmail))
		if email == "" {
			return &ValidationError{StepID: stepID, FieldID: FieldEmail, Message: "email is required"}
		}
		if _, err := mail.ParseAddress(email); err != nil {
			return &ValidationError{StepID: stepID, FieldID: FieldEmail, Message: "email is not valid"}
		}
		if strings.TrimSpace(s.Field(FieldNationalID)) == "" {
			return &ValidationError{StepID: stepID, FieldID: FieldNationalID, Message: "national ID is required"}
		}
		return nil
	}
}

func validateFinancing(s State) error {
	if strings.TrimSpace(s.Field(FieldAssetDescription)) == "" {
		return &ValidationError{StepID: 1, FieldID: FieldAssetDescription, Message: "asset description is required"}
	}
	amount, err := strconv.ParseFloat(s.Field(FieldAmountRequested), 64)
	if err != nil || amount <= 0 {
		return &ValidationError{StepID: 1, FieldID: FieldAmountRequested, Message: "amount requested must be a positive number"}
	}
	term, err := strconv.Atoi(s.Field(FieldTermMonths))
	if err != nil || term < 1 || term > maxTermMonths {
		return &ValidationError{StepID: 1, FieldID: FieldTermMonths, Message: "term must be between 1 and 360 months"}
	}
	return nil
}

func validateAsset(s State) error {
	if strings.TrimSpace(s.Field(FieldAssetName)) == "" {
		return &ValidationError{StepID: 1, FieldID: FieldAssetName, Message: "asset name is required"}
	}
	if !assetTypes[s.Field(FieldAssetType)] {
		return &ValidationError{StepID: 1, FieldID: FieldAssetType, Message: "asset type is not recognized"}
	}
	value, err := strconv.ParseFloat(s.Field(FieldEstimatedValue), 64)
	if err != nil || value <= 0 {
		return &ValidationError{StepID: 1, FieldID: FieldEstimatedValue, Message: "estimated value must be a positive number"}
	}
	return nil
}

// requireMedia validates that a media step captured at least min attachments
// for its role.
func requireMedia(stepID int, role string, min int) func(State) error {
	return func(s State) error {
		if s.MediaCount(role) < min {
			return &ValidationError{StepID: stepID, Message: "required capture is missing"}
		}
		return nil
	}
}
