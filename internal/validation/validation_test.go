package validation

import (
	"reflect"
	"testing"
)

type signupRequest struct {
	Username string `json:"username" validate:"required,notblank" errmsg:"required:Username is required;notblank:Not a valid username."`
	Password string `json:"password" validate:"required,notblank" errmsg:"required:Password is required;notblank:Not a valid password."`
}

type createPinRequest struct {
	Name   string    `json:"name" validate:"required,notblank" errmsg:"required:Pin name is required;notblank:Not a valid pin name."`
	LatLng []float64 `json:"latLng" validate:"required,len=2" errmsg:"len:Length must be between 2 and 2."`
}

type sharePinRequest struct {
	UserIDs []string `json:"user_ids" validate:"required,min=1,max=10" errmsg:"min:Length must be between 1 and 10.;max:Length must be between 1 and 10."`
}

func TestStructValid(t *testing.T) {
	errs := Struct(&createPinRequest{Name: "newPin", LatLng: []float64{2, 3}})
	if errs != nil {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestStructMissingRequiredFieldUsesCustomMessage(t *testing.T) {
	errs := Struct(&createPinRequest{LatLng: []float64{2, 3}})

	want := Errors{"name": {"Pin name is required"}}
	if !reflect.DeepEqual(errs, want) {
		t.Errorf("expected %v, got %v", want, errs)
	}
}

func TestStructMissingFieldDefaultMessage(t *testing.T) {
	errs := Struct(&createPinRequest{Name: "newPin"})

	want := Errors{"latLng": {"Missing data for required field."}}
	if !reflect.DeepEqual(errs, want) {
		t.Errorf("expected %v, got %v", want, errs)
	}
}

func TestStructLatLngLength(t *testing.T) {
	for _, latLng := range [][]float64{{1}, {1, 2, 3}} {
		errs := Struct(&createPinRequest{Name: "newPin", LatLng: latLng})

		want := Errors{"latLng": {"Length must be between 2 and 2."}}
		if !reflect.DeepEqual(errs, want) {
			t.Errorf("latLng=%v: expected %v, got %v", latLng, want, errs)
		}
	}
}

func TestStructBlankUsername(t *testing.T) {
	errs := Struct(&signupRequest{Username: "   ", Password: "password1"})

	want := Errors{"username": {"Not a valid username."}}
	if !reflect.DeepEqual(errs, want) {
		t.Errorf("expected %v, got %v", want, errs)
	}
}

func TestStructShareBounds(t *testing.T) {
	tooMany := make([]string, 11)
	for i := range tooMany {
		tooMany[i] = "id"
	}

	cases := []struct {
		name string
		req  sharePinRequest
	}{
		{"empty", sharePinRequest{UserIDs: []string{}}},
		{"too many", sharePinRequest{UserIDs: tooMany}},
	}

	for _, tc := range cases {
		errs := Struct(&tc.req)
		want := Errors{"user_ids": {"Length must be between 1 and 10."}}
		if !reflect.DeepEqual(errs, want) {
			t.Errorf("%s: expected %v, got %v", tc.name, want, errs)
		}
	}
}
