package validation

import (
	"net/http"
	"strings"
	"testing"

	"github.com/skillsenselab/freightway/errors"
)

type registrationInput struct {
	ServiceName  string `mapstructure:"service_name" validate:"required"`
	TTLSeconds   int    `mapstructure:"ttl_seconds" validate:"gt=0"`
	AdvertiseURL string `mapstructure:"advertise_url" validate:"omitempty,url"`
}

func TestValidate_Success(t *testing.T) {
	in := registrationInput{ServiceName: "freightway", TTLSeconds: 300, AdvertiseURL: "https://freightway.example.com"}
	if err := Validate(in); err != nil {
		t.Fatalf("expected valid input, got %v", err)
	}
}

func TestValidate_MissingRequired(t *testing.T) {
	in := registrationInput{TTLSeconds: 300}
	err := Validate(in)
	if err == nil {
		t.Fatal("expected validation error")
	}

	apiErr, ok := errors.AsAPIError(err)
	if !ok {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.Kind != errors.KindValidation {
		t.Errorf("expected VALIDATION_ERROR, got %s", apiErr.Kind)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", apiErr.StatusCode)
	}
	if !strings.Contains(apiErr.Message, "service_name") {
		t.Errorf("expected field name in message, got %q", apiErr.Message)
	}
}

func TestValidate_MultipleFailures(t *testing.T) {
	in := registrationInput{TTLSeconds: 0, AdvertiseURL: "not a url"}
	err := Validate(in)
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := err.Error()
	for _, want := range []string{"service_name", "ttl_seconds", "advertise_url"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in message, got %q", want, msg)
		}
	}
}
