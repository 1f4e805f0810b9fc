package middleware

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testSignup struct {
	Email    string `json:"email" validate:"required,storeemail"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required"`
}

func TestProperty_RequiredFieldValidationWorks(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("missing required fields are rejected", prop.ForAll(
		func(withEmail, withPassword, withName bool) bool {
			body := make(map[string]interface{})
			if withEmail {
				body["email"] = "jane@example.com"
			}
			if withPassword {
				body["password"] = "secret1"
			}
			if withName {
				body["name"] = "Jane"
			}

			raw, _ := json.Marshal(body)
			req := httptest.NewRequest("POST", "/api/auth/signup", bytes.NewReader(raw))

			var dst testSignup
			err := DecodeAndValidate(req, &dst)

			if withEmail && withPassword && withName {
				return err == nil
			}
			missing := 0
			for _, present := range []bool{withEmail, withPassword, withName} {
				if !present {
					missing++
				}
			}
			return err != nil && len(FormatValidationErrors(err)) == missing
		},
		gen.Bool(),
		gen.Bool(),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_StoreEmailTagMatchesDomainRule(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("the storeemail tag agrees with domain.ValidEmail", prop.ForAll(
		func(email string) bool {
			err := ValidateRequest(testSignup{Email: email, Password: "secret1", Name: "Jane"})
			return (err == nil) == domain.ValidEmail(email)
		},
		gen.OneGenOf(
			gen.RegexMatch(`[a-z]{1,8}@[a-z]{1,8}\.[a-z]{2,3}`),
			gen.RegexMatch(`[a-z@. ]{1,12}`),
		),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestFormatValidationErrors_UsesJSONNames(t *testing.T) {
	err := ValidateRequest(testSignup{Email: "bad", Password: "123", Name: "Jane"})
	require.Error(t, err)

	assert.ElementsMatch(t, []ValidationError{
		{Field: "email", Message: "Invalid email format"},
		{Field: "password", Message: "Value is too short"},
	}, FormatValidationErrors(err))
}

func TestDecodeAndValidate_MalformedBody(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader("{"))

	var dst testSignup
	err := DecodeAndValidate(req, &dst)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, FormatValidationErrors(err))
}
