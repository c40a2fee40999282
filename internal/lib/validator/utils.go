package validator

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"reviewhub/proj/internal/utils"

	govalidator "github.com/go-playground/validator/v10"
)

// MinTitleYear is the oldest catalog year accepted for a title.
const MinTitleYear = 1500

var slugRe = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

func getFieldName(obj any, origFieldName string) (fieldName string) {
	t := reflect.TypeOf(obj)
	field, found := t.FieldByName(origFieldName)
	if !found {
		panic(fmt.Sprintf("Field %s not found in type %s", origFieldName, t.Name()))
	}
	if tag := field.Tag.Get("json"); tag != "" && tag != "-" {
		jsonName := strings.Split(tag, ",")[0]
		if jsonName != "" {
			fieldName = jsonName
		}
	} else {
		fieldName = utils.CamelToSnake(origFieldName)
	}
	return
}

func ProcessValidationErrors(obj any, errs govalidator.ValidationErrors) map[string]string {
	processedErrors := make(map[string]string)
	for _, e := range errs {
		processedErrors[getFieldName(obj, e.StructField())] = GetErrorMsgForField(obj, e)
	}
	return processedErrors
}

func ValidateStruct(validator *govalidator.Validate, obj any) (validationErrs map[string]string) {
	if err := validator.Struct(obj); err != nil {
		validationErrs = ProcessValidationErrors(obj, err.(govalidator.ValidationErrors))
	}
	return
}

func GetErrorMsgForField(obj any, err govalidator.FieldError) (errorMsg string) {
	t := reflect.TypeOf(obj)
	field, found := t.FieldByName(err.StructField())
	if !found {
		panic(fmt.Sprintf("Field %s not found in type %s", err.StructField(), t.Name()))
	}
	errorMsg = field.Tag.Get("errorMsg")
	if errorMsg == "" {
		switch err.Tag() {
		case "required":
			errorMsg = "This field is required"
		case "max":
			errorMsg = fmt.Sprintf("The maximum value is %s", err.Param())
		case "min":
			errorMsg = fmt.Sprintf("The minimum value is %s", err.Param())
		case "gte":
			errorMsg = fmt.Sprintf("Value should be greater than or equal to %s", err.Param())
		case "lte":
			errorMsg = fmt.Sprintf("Value should be less than or equal to %s", err.Param())
		case "lt":
			errorMsg = fmt.Sprintf("Value should be less than %s", err.Param())
		case "gt":
			errorMsg = fmt.Sprintf("Value should be greater than %s", err.Param())
		case "oneof":
			errorMsg = fmt.Sprintf("Value should be one of %s", err.Param())
		case "len":
			errorMsg = fmt.Sprintf("Length should be equal to %s", err.Param())
		case "unique":
			errorMsg = "Value must not contain duplicate values"
		case "email":
			errorMsg = "Value must be a valid email address"
		case "slug":
			errorMsg = "Value must contain only letters, numbers, hyphens and underscores"
		case "titleyear":
			errorMsg = fmt.Sprintf("Value must be a year between %d and the current year", MinTitleYear)
		case "notreserved":
			errorMsg = "This username is reserved"
		default:
			errorMsg = "This field is invalid"
		}
	}
	return
}

// CUSTOM VALIDATORS

// ValidateSlug reports whether the field matches ^[-a-zA-Z0-9_]+$.
func ValidateSlug(fl govalidator.FieldLevel) bool {
	return slugRe.MatchString(fl.Field().String())
}

// ValidateTitleYear bounds a title year to [MinTitleYear, current year].
// The current year is taken at validation time.
func ValidateTitleYear(fl govalidator.FieldLevel) bool {
	year := fl.Field().Int()
	return year >= MinTitleYear && year <= int64(time.Now().Year())
}

// NotReservedValidator rejects the reserved username (case-insensitive).
func NotReservedValidator(reserved string) govalidator.Func {
	return func(fl govalidator.FieldLevel) bool {
		return !strings.EqualFold(fl.Field().String(), reserved)
	}
}

// New builds the validator instance used across the application with all
// custom validators registered. reservedUsername comes from config.
func New(reservedUsername string) *govalidator.Validate {
	v := govalidator.New(govalidator.WithRequiredStructEnabled())
	for tag, fn := range map[string]govalidator.Func{
		"slug":        ValidateSlug,
		"titleyear":   ValidateTitleYear,
		"notreserved": NotReservedValidator(reservedUsername),
	} {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
	return v
}
