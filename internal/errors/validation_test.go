package errors_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
)

type ValidationTestSuite struct {
	suite.Suite
}

func TestValidationSuite(t *testing.T) {
	suite.Run(t, new(ValidationTestSuite))
}

func (s *ValidationTestSuite) TestValidationError() {
	ve := errors.NewValidationError()
	ve.AddFieldError("storage.driver", "is required")
	ve.AddFieldErrorf("server.port", "must be positive, got %d", 0)

	s.Assert().True(ve.HasErrors())
	s.Assert().Equal("validation failed: server.port: must be positive, got 0; storage.driver: is required", ve.Error())

	err := ve.ToError()
	s.Assert().Equal(errors.CodeInvalidArgument, err.Code)
	s.Assert().NotNil(err.Meta["validation_errors"])
}

func (s *ValidationTestSuite) TestValidationBuilder() {
	vb := errors.NewValidationBuilder()
	vb.Field("name", "is required").
		RequiredField("player_id").
		InvalidField("format", "not a known log format")

	err := vb.Build()
	s.Require().NotNil(err)
	s.Assert().True(errors.IsInvalidArgument(err))
}

func (s *ValidationTestSuite) TestValidationBuilderNoErrors() {
	s.Assert().Nil(errors.NewValidationBuilder().Build())
}

func (s *ValidationTestSuite) TestValidateRequired() {
	testCases := []struct {
		name      string
		value     string
		shouldErr bool
	}{
		{"valid value", "test", false},
		{"empty string", "", true},
		{"whitespace only", "   ", true},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			vb := errors.NewValidationBuilder()
			errors.ValidateRequired("field", tc.value, vb)
			if tc.shouldErr {
				s.Assert().Error(vb.Build())
			} else {
				s.Assert().NoError(vb.Build())
			}
		})
	}
}

func (s *ValidationTestSuite) TestValidateEnumAndPositive() {
	vb := errors.NewValidationBuilder()
	errors.ValidateEnum("storage.driver", "postgres", []string{"redis", "sqlite", "memory"}, vb)
	errors.ValidateEnum("log.format", "json", []string{"json", "text", "pretty"}, vb)
	errors.ValidatePositive("server.port", 0, vb)
	errors.ValidatePositive("session.lease_ttl", 1.5, vb)

	err := vb.Build()
	s.Require().Error(err)
	fields := errors.GetMeta(err)["validation_errors"].(map[string][]string)
	s.Assert().Contains(fields["storage.driver"][0], "must be one of: redis, sqlite, memory")
	s.Assert().Contains(fields, "server.port")
	s.Assert().NotContains(fields, "log.format")
	s.Assert().NotContains(fields, "session.lease_ttl")
}
