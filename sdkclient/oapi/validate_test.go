/*
Copyright 2025 The Cordinate Contributors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package oapi

import "testing"

func TestGetSwagger(t *testing.T) {
	swagger, err := GetSwagger()
	if err != nil {
		t.Fatalf("GetSwagger() error = %v", err)
	}
	if swagger.Info.Title != "Cordinate Users API" {
		t.Errorf("title = %q", swagger.Info.Title)
	}
	for _, path := range []string{"/health", "/users", "/users/{userId}"} {
		if swagger.Paths.Find(path) == nil {
			t.Errorf("spec missing path %s", path)
		}
	}
}

func TestSchemaValidator(t *testing.T) {
	v, err := NewSchemaValidator()
	if err != nil {
		t.Fatalf("NewSchemaValidator() error = %v", err)
	}

	tests := []struct {
		name    string
		schema  string
		payload any
		valid   bool
		wantErr bool
	}{
		{
			name:    "valid map payload",
			schema:  "CreateUserRequest",
			payload: map[string]any{"name": "Ada"},
			valid:   true,
		},
		{
			name:    "valid typed payload",
			schema:  "CreateUserRequest",
			payload: CreateUserRequest{Name: "Ada"},
			valid:   true,
		},
		{
			name:    "missing required field",
			schema:  "CreateUserRequest",
			payload: map[string]any{"email": "ada@example.com"},
			valid:   false,
		},
		{
			name:    "empty name violates min length",
			schema:  "CreateUserRequest",
			payload: map[string]any{"name": ""},
			valid:   false,
		},
		{
			name:    "wrong type",
			schema:  "CreateUserRequest",
			payload: map[string]any{"name": 42},
			valid:   false,
		},
		{
			name:    "unknown schema",
			schema:  "NoSuchSchema",
			payload: map[string]any{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := v.Validate(tt.schema, tt.payload)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Validate() succeeded, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			if result.Valid != tt.valid {
				t.Errorf("Valid = %v, want %v (errors: %v)", result.Valid, tt.valid, result.Errors)
			}
			if !tt.valid && len(result.Errors) == 0 {
				t.Error("invalid result carries no errors")
			}
		})
	}
}
