//go:build unit || !integration

package envelope

import (
	"encoding/json"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type ResponseTestSuite struct {
	suite.Suite
}

func (s *ResponseTestSuite) TestCodes() {
	claimed := common.HexToAddress("0x01")
	for name, tc := range map[string]struct {
		err  error
		code string
	}{
		"schema":       {err: NewSchemaError(StageData, "header", "missing"), code: ErrorCodeSchema},
		"unknown type": {err: NewUnknownTypeError("Ping"), code: ErrorCodeUnknownType},
		"verification": {err: &VerificationError{Reason: "mismatch", Claimed: &claimed}, code: ErrorCodeVerification},
		"wrapped":      {err: errors.Wrap(NewUnknownTypeError("Ping"), "handling request"), code: ErrorCodeUnknownType},
		"other":        {err: errors.New("boom"), code: ErrorCodeUnknown},
	} {
		s.Run(name, func() {
			resp := ToErrorResponse(tc.err)
			s.Require().NotNil(resp)
			s.Equal(tc.code, resp.Code)
			s.Equal(tc.err.Error(), resp.Message)
			s.NotNil(resp.Details)
		})
	}
}

func (s *ResponseTestSuite) TestDetails() {
	resp := ToErrorResponse(NewSchemaError(StageBody, "nonce", "expected integer"))
	s.Equal(map[string]interface{}{"stage": StageBody, "field": "nonce"}, resp.Details)

	resp = ToErrorResponse(NewUnknownTypeError("Ping"))
	s.Equal(map[string]interface{}{"type": "Ping"}, resp.Details)
}

func (s *ResponseTestSuite) TestNil() {
	s.Nil(ToErrorResponse(nil))
}

func (s *ResponseTestSuite) TestErrorToText() {
	var resp ErrorResponse
	s.Require().NoError(json.Unmarshal([]byte(ErrorToText(NewUnknownTypeError("Ping"))), &resp))
	s.Equal(ErrorCodeUnknownType, resp.Code)
	s.Equal(`unknown message type: "Ping"`, resp.Message)
}

func TestResponseTestSuite(t *testing.T) {
	suite.Run(t, new(ResponseTestSuite))
}
