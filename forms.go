package main

import (
	"errors"
	"math"
	"net/http"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"quotedesk/constants"
)

var formValidator = newFormValidator()

func newFormValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		if label := field.Tag.Get("label"); label != "" {
			return label
		}
		return field.Name
	})
	_ = v.RegisterValidation("quote_status", func(fl validator.FieldLevel) bool {
		return slices.Contains(constants.QUOTE_RESPONSE_STATUSES, fl.Field().String())
	})
	return v
}

// validateForm runs the struct tags and turns the first failure into a
// ValidationError with a readable message.
func validateForm(form any) error {
	err := formValidator.Struct(form)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return internalError("form validation failed", err)
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return validationError("%s is required", fe.Field())
	case "min":
		return validationError("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return validationError("%s must be at most %s characters", fe.Field(), fe.Param())
	case "email":
		return validationError("%s must be a valid email address", fe.Field())
	case "quote_status":
		return validationError("%s is not a valid choice", fe.Field())
	default:
		return validationError("%s is invalid", fe.Field())
	}
}

type RegisterForm struct {
	Username string `label:"Username" validate:"required,min=4,max=25"`
	Email    string `label:"Email" validate:"required,email"`
	Password string `label:"Password" validate:"required,min=6,max=35"`
}

func parseRegisterForm(r *http.Request) RegisterForm {
	return RegisterForm{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
}

type LoginForm struct {
	Username string `label:"Username" validate:"required"`
	Password string `label:"Password" validate:"required"`
}

func parseLoginForm(r *http.Request) LoginForm {
	return LoginForm{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Password: r.PostFormValue("password"),
	}
}

type QuoteRequestForm struct {
	BusinessType string `label:"Business type" validate:"required,max=100"`
	Requirements string `label:"Requirements" validate:"required,max=5000"`
	ContactInfo  string `label:"Contact info" validate:"required,max=100"`
}

func parseQuoteRequestForm(r *http.Request) QuoteRequestForm {
	return QuoteRequestForm{
		BusinessType: strings.TrimSpace(r.PostFormValue("business_type")),
		Requirements: strings.TrimSpace(r.PostFormValue("requirements")),
		ContactInfo:  strings.TrimSpace(r.PostFormValue("contact_info")),
	}
}

type QuoteResponseForm struct {
	QuoteID    string `label:"Quote ID" validate:"required"`
	Status     string `label:"Status" validate:"required,quote_status"`
	QuotePrice string `label:"Quote price"`
}

func parseQuoteResponseForm(r *http.Request) QuoteResponseForm {
	return QuoteResponseForm{
		QuoteID:    strings.TrimSpace(r.PostFormValue("quote_id")),
		Status:     strings.TrimSpace(r.PostFormValue("status")),
		QuotePrice: strings.TrimSpace(r.PostFormValue("quote_price")),
	}
}

// QuoteResponse is a validated admin response ready to be applied
type QuoteResponse struct {
	QuoteID    int
	Status     string
	QuotePrice *float64
}

// Resolve validates the form and parses its numeric fields. An empty price
// clears the stored price.
func (f QuoteResponseForm) Resolve() (QuoteResponse, error) {
	if err := validateForm(f); err != nil {
		return QuoteResponse{}, err
	}

	var price *float64
	if f.QuotePrice != "" {
		p, err := strconv.ParseFloat(f.QuotePrice, 64)
		if err != nil || math.IsNaN(p) || math.IsInf(p, 0) {
			return QuoteResponse{}, validationError("Quote price must be a number")
		}
		if p < 0 {
			return QuoteResponse{}, validationError("Quote price must not be negative")
		}
		price = &p
	}

	id, err := strconv.Atoi(f.QuoteID)
	if err != nil {
		return QuoteResponse{}, validationError("Invalid Quote ID")
	}

	return QuoteResponse{QuoteID: id, Status: f.Status, QuotePrice: price}, nil
}

type UpdateForm struct {
	Content string `label:"Update content" validate:"required"`
}

func parseUpdateForm(r *http.Request) UpdateForm {
	return UpdateForm{Content: strings.TrimSpace(r.PostFormValue("update_content"))}
}

type ContactForm struct {
	Name    string `label:"Name" validate:"required,max=100"`
	Email   string `label:"Email" validate:"required,email,max=100"`
	Message string `label:"Message" validate:"required,max=5000"`
}

func parseContactForm(r *http.Request) ContactForm {
	return ContactForm{
		Name:    strings.TrimSpace(r.PostFormValue("name")),
		Email:   strings.TrimSpace(r.PostFormValue("email")),
		Message: strings.TrimSpace(r.PostFormValue("message")),
	}
}

// ReviewInput is the JSON body of POST /add_review
type ReviewInput struct {
	Username string `json:"username" label:"Username" validate:"required,max=100"`
	Content  string `json:"content" label:"Content" validate:"required,max=5000"`
}
