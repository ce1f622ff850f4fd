//go:build unit || !integration

package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/raiden-network/raiden-services/pkg/envelope"
	"github.com/raiden-network/raiden-services/pkg/messages"
)

const (
	testKeyHex = "4f3edf983ac636a65a842ce7c78d9aa706d3b113bce9c46f30d7d21715b23b1d"
	testSender = "0x90F8bf6A479f320ead074411a4B0e7944Ea8c9C1"
)

type RootTestSuite struct {
	suite.Suite
	dir     string
	keyFile string
}

func (s *RootTestSuite) SetupTest() {
	s.dir = s.T().TempDir()
	s.keyFile = filepath.Join(s.dir, "key.hex")
	s.Require().NoError(os.WriteFile(s.keyFile, []byte(testKeyHex+"\n"), 0o600))
}

// run executes the command line args with stdin and returns what was written to stdout.
func (s *RootTestSuite) run(stdin string, args ...string) (string, error) {
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--log-mode", "quiet"))
	err := cmd.Execute()
	return out.String(), err
}

func (s *RootTestSuite) TestID() {
	out, err := s.run("", "id", "--keystore-file", s.keyFile)
	s.Require().NoError(err)

	var info map[string]string
	s.Require().NoError(json.Unmarshal([]byte(out), &info))
	s.Equal(testSender, info["Address"])
}

func (s *RootTestSuite) TestSealThenOpen() {
	body := `{"source": "0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA", "target": "0xBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB", "value": 10}`
	sealed, err := s.run(body, "seal", "--type", messages.TypePathsRequest, "--keystore-file", s.keyFile)
	s.Require().NoError(err)

	var env envelope.Envelope
	s.Require().NoError(json.Unmarshal([]byte(sealed), &env))
	s.NotEmpty(env.Signature)

	out, err := s.run(sealed, "open", "--output", "json")
	s.Require().NoError(err)

	var opened struct {
		Type   string         `json:"type"`
		Sender string         `json:"sender"`
		Body   map[string]any `json:"body"`
	}
	s.Require().NoError(json.Unmarshal([]byte(out), &opened))
	s.Equal(messages.TypePathsRequest, opened.Type)
	s.Equal(testSender, opened.Sender)
	s.Equal("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", opened.Body["source"])
}

func (s *RootTestSuite) TestSealYAMLBody() {
	body := "chain_id: 1\ntoken_network_address: \"0x0101010101010101010101010101010101010101\"\n" +
		"channel_identifier: 4\nnonce: 2\nrelative_fee: 100\n"
	bodyFile := filepath.Join(s.dir, "fee.yaml")
	s.Require().NoError(os.WriteFile(bodyFile, []byte(body), 0o600))

	sealed, err := s.run("", "seal", "--type", messages.TypeFeeInfo, "--body", bodyFile, "--keystore-file", s.keyFile)
	s.Require().NoError(err)

	envFile := filepath.Join(s.dir, "envelope.json")
	s.Require().NoError(os.WriteFile(envFile, []byte(sealed), 0o600))
	out, err := s.run("", "open", envFile, "--output", "yaml")
	s.Require().NoError(err)
	s.Contains(out, "type: FeeInfo")
	s.Contains(out, "relative_fee: 100")
}

func (s *RootTestSuite) TestSealRejectsInvalidBody() {
	_, err := s.run(`{"source": "0x1234"}`, "seal", "--type", messages.TypePathsRequest, "--keystore-file", s.keyFile)
	var schemaErr *envelope.SchemaError
	s.Require().ErrorAs(err, &schemaErr)
	s.Equal(envelope.StageBody, schemaErr.Stage)
}

func (s *RootTestSuite) TestSealNeedsKey() {
	_, err := s.run(`{}`, "seal", "--type", messages.TypePathsRequest)
	s.ErrorContains(err, "no key configured")
}

func (s *RootTestSuite) TestOpenTampered() {
	body := `{"source": "0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA", "target": "0xBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB"}`
	sealed, err := s.run(body, "seal", "--type", messages.TypePathsRequest, "--keystore-file", s.keyFile)
	s.Require().NoError(err)
	s.Require().Contains(sealed, `source\":\"0xaaaa`)
	tampered := strings.Replace(sealed, `source\":\"0xaaaa`, `source\":\"0xaaab`, 1)

	_, err = s.run(tampered, "open")
	var verificationErr *envelope.VerificationError
	s.ErrorAs(err, &verificationErr)

	_, err = s.run(tampered, "open", "--no-verify", "--output", "json")
	s.NoError(err)
}

func (s *RootTestSuite) TestSizeLimitAppliesToInput() {
	body := `{"source": "0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA", "target": "0xBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB"}`
	sealed, err := s.run(body, "seal", "--type", messages.TypePathsRequest, "--keystore-file", s.keyFile)
	s.Require().NoError(err)

	_, err = s.run(sealed+strings.Repeat(" ", 4096), "open", "--max-envelope-size", "256B")
	var schemaErr *envelope.SchemaError
	s.Require().ErrorAs(err, &schemaErr)
	s.Equal(envelope.StageEnvelope, schemaErr.Stage)

	_, err = s.run(body, "seal", "--type", messages.TypePathsRequest, "--keystore-file", s.keyFile, "--max-envelope-size", "16B")
	s.ErrorContains(err, "body is larger than")
}

func (s *RootTestSuite) TestOpenRejectsGarbage() {
	_, err := s.run(`{"data": "{}"}`, "open")
	var schemaErr *envelope.SchemaError
	s.Require().ErrorAs(err, &schemaErr)
	s.Equal("signature", schemaErr.Field)
}

func (s *RootTestSuite) TestKeyNewThenID() {
	passwordFile := filepath.Join(s.dir, "password")
	s.Require().NoError(os.WriteFile(passwordFile, []byte("secret\n"), 0o600))

	out, err := s.run("", "key", "new", "--dir", s.dir, "--light", "--output", "json", "--password-file", passwordFile)
	s.Require().NoError(err)
	var created map[string]string
	s.Require().NoError(json.Unmarshal([]byte(out), &created))

	out, err = s.run("", "id", "--keystore-file", created["Path"], "--password-file", passwordFile)
	s.Require().NoError(err)
	var info map[string]string
	s.Require().NoError(json.Unmarshal([]byte(out), &info))
	s.Equal(created["Address"], info["Address"])
}

func (s *RootTestSuite) TestSchema() {
	out, err := s.run("", "schema", "--list")
	s.Require().NoError(err)
	s.Contains(out, messages.TypeMonitorRequest)

	out, err = s.run("", "schema")
	s.Require().NoError(err)
	s.Contains(out, `"signature"`)

	out, err = s.run("", "schema", "--type", messages.TypePathsRequest)
	s.Require().NoError(err)
	s.Contains(out, `"num_paths"`)

	_, err = s.run("", "schema", "--type", "Ping")
	s.Error(err)
}

func (s *RootTestSuite) TestVersion() {
	out, err := s.run("", "version", "--output", "json")
	s.Require().NoError(err)
	s.Contains(out, "GitVersion")
}

func (s *RootTestSuite) TestInvalidConfig() {
	_, err := s.run("", "version", "--max-envelope-size", "0B")
	s.ErrorContains(err, "max-envelope-size")
}

func TestRootTestSuite(t *testing.T) {
	suite.Run(t, new(RootTestSuite))
}
