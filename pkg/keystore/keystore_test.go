//go:build unit || !integration

package keystore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/suite"

	"github.com/raiden-network/raiden-services/pkg/signature"
)

const (
	testKeyHex  = "4f3edf983ac636a65a842ce7c78d9aa706d3b113bce9c46f30d7d21715b23b1d"
	testAddress = "0x90F8bf6A479f320ead074411a4B0e7944Ea8c9C1"
)

type KeystoreTestSuite struct {
	suite.Suite
	dir string
}

func (s *KeystoreTestSuite) SetupTest() {
	s.dir = s.T().TempDir()
}

func (s *KeystoreTestSuite) write(name, content string) string {
	path := filepath.Join(s.dir, name)
	s.Require().NoError(os.WriteFile(path, []byte(content), 0o600))
	return path
}

func (s *KeystoreTestSuite) TestNewKeyFileRoundTrip() {
	path, address, err := NewKeyFile(s.dir, "secret", LightScryptN, LightScryptP)
	s.Require().NoError(err)
	s.True(strings.HasPrefix(filepath.Base(path), "UTC--"))
	s.True(strings.HasSuffix(path, strings.ToLower(address.Hex()[2:])))

	key, err := LoadKey(path, "secret")
	s.Require().NoError(err)
	s.Equal(address, signature.IdentityOf(key))
}

func (s *KeystoreTestSuite) TestWrongPassword() {
	path, _, err := NewKeyFile(s.dir, "secret", LightScryptN, LightScryptP)
	s.Require().NoError(err)

	_, err = LoadKey(path, "not the secret")
	s.ErrorIs(err, ErrWrongPassword)
}

func (s *KeystoreTestSuite) TestHexKey() {
	for name, content := range map[string]string{
		"bare":     testKeyHex,
		"prefixed": "0x" + testKeyHex,
		"newline":  testKeyHex + "\n",
	} {
		s.Run(name, func() {
			key, err := LoadKey(s.write(name, content), "")
			s.Require().NoError(err)
			s.Equal(common.HexToAddress(testAddress), signature.IdentityOf(key))
		})
	}
}

func (s *KeystoreTestSuite) TestInvalidFiles() {
	_, err := LoadKey(filepath.Join(s.dir, "missing"), "")
	s.Error(err)

	_, err = LoadKey(s.dir, "")
	s.Error(err)

	_, err = LoadKey(s.write("garbage", "not a key"), "")
	s.Error(err)

	_, err = LoadKey(s.write("large", strings.Repeat("a", maxKeyFileSize+1)), "")
	s.ErrorContains(err, "larger than")
}

func (s *KeystoreTestSuite) TestNewKeyFileNeedsDirectory() {
	_, _, err := NewKeyFile(filepath.Join(s.dir, "missing"), "secret", LightScryptN, LightScryptP)
	s.Error(err)
}

func (s *KeystoreTestSuite) TestLoadPassword() {
	password, err := LoadPassword(s.write("password", "hunter2\n"))
	s.Require().NoError(err)
	s.Equal("hunter2", password)

	password, err = LoadPassword(s.write("windows", "hunter2\r\n"))
	s.Require().NoError(err)
	s.Equal("hunter2", password)

	password, err = LoadPassword(s.write("spaces", " hunter2 "))
	s.Require().NoError(err)
	s.Equal(" hunter2 ", password)
}

func (s *KeystoreTestSuite) TestKeyFileName() {
	ts := time.Date(2023, 11, 14, 22, 13, 20, 5, time.UTC)
	s.Equal("UTC--2023-11-14T22-13-20.000000005Z--90f8bf6a479f320ead074411a4b0e7944ea8c9c1",
		keyFileName(common.HexToAddress(testAddress), ts))
}

func TestKeystoreTestSuite(t *testing.T) {
	suite.Run(t, new(KeystoreTestSuite))
}
