package Controllers

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"MatirBank/Services"
)

var (
	validate *validator.Validate
	trans    ut.Translator
)

func init() {
	english := en.New()
	uni := ut.New(english, english)
	trans, _ = uni.GetTranslator("en")

	validate = validator.New()
	// Report fields by their JSON names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Money is compared as a number
	validate.RegisterCustomTypeFunc(func(v reflect.Value) interface{} {
		if d, ok := v.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})

	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		panic(err)
	}
}

// parseBody decodes the JSON body into dst and validates it. A missing
// required field is reported as requiredMsg when one is given; any other
// failure uses the translated validator message.
func parseBody(c *fiber.Ctx, dst interface{}, requiredMsg string) error {
	if body := c.Body(); len(body) > 0 {
		if err := c.App().Config().JSONDecoder(body, dst); err != nil {
			return Services.Validation("Invalid JSON body")
		}
	}
	return validateInput(dst, requiredMsg)
}

func validateInput(v interface{}, requiredMsg string) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return Services.Validation(err.Error())
	}
	if requiredMsg != "" {
		for _, fe := range errs {
			if fe.Tag() == "required" {
				return Services.Validation(requiredMsg)
			}
		}
	}
	return Services.Validation(errs[0].Translate(trans))
}

// parseDate reads a YYYY-MM-DD calendar date
func parseDate(field, raw string) (datatypes.Date, error) {
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return datatypes.Date{}, Services.Validation("Invalid " + field + " format. Use YYYY-MM-DD")
	}
	return datatypes.Date(t), nil
}
