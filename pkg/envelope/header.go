package envelope

import (
	"encoding/json"
	"math"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/raiden-network/raiden-services/pkg/signature"
)

// Header carries the envelope metadata of a message.
// Sender is nil while assembling and is required on received messages.
type Header struct {
	Type      string
	Timestamp float64
	Sender    *common.Address
}

// wireHeader is the JSON layout of Header. Sender is rendered in its EIP-55 form.
type wireHeader struct {
	Type      string  `json:"type"`
	Timestamp float64 `json:"timestamp"`
	Sender    *string `json:"sender"`
}

// Time returns the timestamp as a time.Time.
func (h Header) Time() time.Time {
	sec, frac := math.Modf(h.Timestamp)
	return time.Unix(int64(sec), int64(frac*float64(time.Second)))
}

// MarshalJSON implements json.Marshaler.
func (h Header) MarshalJSON() ([]byte, error) {
	w := wireHeader{Type: h.Type, Timestamp: h.Timestamp}
	if h.Sender != nil {
		s := h.Sender.Hex()
		w.Sender = &s
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler.
func (h *Header) UnmarshalJSON(b []byte) error {
	var w wireHeader
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*h = Header{Type: w.Type, Timestamp: w.Timestamp}
	if w.Sender != nil {
		addr, err := signature.ParseAddress(*w.Sender)
		if err != nil {
			return errors.Wrap(err, "invalid sender")
		}
		h.Sender = &addr
	}
	return nil
}

// timestampOf converts t to floating point seconds since the epoch.
func timestampOf(t time.Time) float64 {
	return float64(t.Unix()) + float64(t.Nanosecond())/float64(time.Second)
}
