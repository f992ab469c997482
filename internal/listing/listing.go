package listing

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrNotFound is returned when a listing id is unknown.
	ErrNotFound = errors.New("listing not found")
	// ErrValidation is the sentinel wrapped by ValidationError.
	ErrValidation = errors.New("invalid listing input")
)

// Condition grades the physical state of a listed item.
type Condition string

const (
	ConditionLikeNew Condition = "Like New"
	ConditionGood    Condition = "Good"
	ConditionFair    Condition = "Fair"
	ConditionPoor    Condition = "Poor"
)

func (c Condition) Valid() bool {
	switch c {
	case ConditionLikeNew, ConditionGood, ConditionFair, ConditionPoor:
		return true
	}
	return false
}

// MaterialType categorizes what kind of study material is being sold.
type MaterialType string

const (
	MaterialTextbook   MaterialType = "Textbook"
	MaterialLabManual  MaterialType = "Lab Manual"
	MaterialNotes      MaterialType = "Notes"
	MaterialStudyGuide MaterialType = "Study Guide"
)

func (m MaterialType) Valid() bool {
	switch m {
	case MaterialTextbook, MaterialLabManual, MaterialNotes, MaterialStudyGuide:
		return true
	}
	return false
}

// Genre is the broad subject area of a listing.
type Genre string

const (
	GenreSTEM       Genre = "STEM"
	GenreBusiness   Genre = "Business"
	GenreArts       Genre = "Arts"
	GenreHumanities Genre = "Humanities"
)

func (g Genre) Valid() bool {
	switch g {
	case GenreSTEM, GenreBusiness, GenreArts, GenreHumanities:
		return true
	}
	return false
}

// Book is a marketplace listing. Sellers are referenced weakly by id;
// deleting a book never touches its profile and vice versa.
type Book struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	CourseCode   string       `json:"course_code"`
	Price        float64      `json:"price"`
	Condition    Condition    `json:"condition"`
	MaterialType MaterialType `json:"material_type"`
	Genre        Genre        `json:"genre"`
	Description  string       `json:"description,omitempty"`
	SellerID     string       `json:"seller_id"`
	IsSold       bool         `json:"is_sold"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Filters narrows a search. Price bounds are inclusive.
type Filters struct {
	Genre    Genre
	MinPrice *float64
	MaxPrice *float64
}

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates the field errors of one rejected input.
type ValidationError struct {
	Details []FieldError
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		fields = append(fields, d.Field)
	}
	return fmt.Sprintf("invalid listing input: %s", strings.Join(fields, ", "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

var validate = validator.New()

// CreateInput is the validated payload for listing a book. Price arrives
// as a string because it comes off a form field.
type CreateInput struct {
	Title        string `json:"title" validate:"required"`
	CourseCode   string `json:"course_code" validate:"required"`
	Price        string `json:"price" validate:"required"`
	Condition    string `json:"condition" validate:"required"`
	MaterialType string `json:"material_type" validate:"required"`
	Genre        string `json:"genre" validate:"required"`
	Description  string `json:"description"`
}

// validateCreate checks required fields, enum membership and the price
// format, returning the parsed price on success.
func (in CreateInput) validateCreate() (float64, *ValidationError) {
	var details []FieldError
	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				details = append(details, FieldError{
					Field:   jsonFieldName(fe.Field()),
					Message: fmt.Sprintf("%s is required", jsonFieldName(fe.Field())),
				})
			}
		}
	}

	price := 0.0
	if in.Price != "" {
		parsed, ok := parsePrice(in.Price)
		if !ok {
			details = append(details, FieldError{Field: "price", Message: "price must be a non-negative number"})
		}
		price = parsed
	}
	if in.Condition != "" && !Condition(in.Condition).Valid() {
		details = append(details, FieldError{Field: "condition", Message: "unknown condition"})
	}
	if in.MaterialType != "" && !MaterialType(in.MaterialType).Valid() {
		details = append(details, FieldError{Field: "material_type", Message: "unknown material type"})
	}
	if in.Genre != "" && !Genre(in.Genre).Valid() {
		details = append(details, FieldError{Field: "genre", Message: "unknown genre"})
	}

	if len(details) > 0 {
		return 0, &ValidationError{Details: details}
	}
	return price, nil
}

// UpdateInput is a partial patch. Nil fields are left untouched.
type UpdateInput struct {
	Title        *string `json:"title"`
	CourseCode   *string `json:"course_code"`
	Price        *string `json:"price"`
	Condition    *string `json:"condition"`
	MaterialType *string `json:"material_type"`
	Genre        *string `json:"genre"`
	Description  *string `json:"description"`
	IsSold       *bool   `json:"is_sold"`
}

func (in UpdateInput) validateUpdate() (float64, *ValidationError) {
	var details []FieldError
	price := 0.0
	if in.Price != nil {
		parsed, ok := parsePrice(*in.Price)
		if !ok {
			details = append(details, FieldError{Field: "price", Message: "price must be a non-negative number"})
		}
		price = parsed
	}
	if in.Title != nil && *in.Title == "" {
		details = append(details, FieldError{Field: "title", Message: "title is required"})
	}
	if in.CourseCode != nil && *in.CourseCode == "" {
		details = append(details, FieldError{Field: "course_code", Message: "course_code is required"})
	}
	if in.Condition != nil && !Condition(*in.Condition).Valid() {
		details = append(details, FieldError{Field: "condition", Message: "unknown condition"})
	}
	if in.MaterialType != nil && !MaterialType(*in.MaterialType).Valid() {
		details = append(details, FieldError{Field: "material_type", Message: "unknown material type"})
	}
	if in.Genre != nil && !Genre(*in.Genre).Valid() {
		details = append(details, FieldError{Field: "genre", Message: "unknown genre"})
	}
	if len(details) > 0 {
		return 0, &ValidationError{Details: details}
	}
	return price, nil
}

func parsePrice(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return v, true
}

// jsonFieldName maps a Go struct field name to its wire name.
func jsonFieldName(field string) string {
	switch field {
	case "CourseCode":
		return "course_code"
	case "MaterialType":
		return "material_type"
	default:
		return strings.ToLower(field)
	}
}
