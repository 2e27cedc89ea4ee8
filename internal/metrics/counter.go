package metrics

import (
	"bytes"
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// Counter counts bytes, tokens, and lines in a piece of text.
type Counter interface {
	Count(text string) (bytes, tokens, lines int)
}

// SimpleCounter estimates tokens as bytes/4, roughly the average token size
// of English text. It needs no model data and never fails.
type SimpleCounter struct{}

func (c *SimpleCounter) Count(text string) (int, int, int) {
	byteCount := len(text)
	lines := bytes.Count([]byte(text), []byte{'\n'}) + 1
	return byteCount, byteCount / 4, lines
}

// TiktokenCounter counts tokens with the tiktoken tokenizer for a specific
// model.
type TiktokenCounter struct {
	encoding *tiktoken.Tiktoken
}

// NewTiktokenCounter creates a TiktokenCounter for the given model name.
func NewTiktokenCounter(model string) (*TiktokenCounter, error) {
	encoding, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, fmt.Errorf("unsupported model for tiktoken: %s", model)
	}
	return &TiktokenCounter{encoding: encoding}, nil
}

func (c *TiktokenCounter) Count(text string) (int, int, int) {
	byteCount := len(text)
	lines := bytes.Count([]byte(text), []byte{'\n'}) + 1
	tokens := len(c.encoding.Encode(text, nil, nil))
	return byteCount, tokens, lines
}
