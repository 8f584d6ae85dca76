package authorizer

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/goodnatureofminers/hackchain/internal/vm"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrRejectedRequest is returned when a worker answers with an error instead of a verdict.
var ErrRejectedRequest = errors.New("authorization request rejected")

// Request is the message handed to a worker. Every field is hex encoded.
type Request struct {
	Hash   string `json:"hash"`
	Input  string `json:"input"`
	Output string `json:"output"`
}

// Response is a worker's answer: either Authorized or Error is set.
// Verdict names the scheduler outcome and is informational.
type Response struct {
	Authorized *bool  `json:"authorized,omitempty"`
	Verdict    string `json:"verdict,omitempty"`
	Error      string `json:"error,omitempty"`
}

// EncodeRequest renders the wire message for one authorization run.
func EncodeRequest(hash, output, input []byte) ([]byte, error) {
	raw, err := json.Marshal(Request{
		Hash:   hex.EncodeToString(hash),
		Input:  hex.EncodeToString(input),
		Output: hex.EncodeToString(output),
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return raw, nil
}

// DecodeResponse extracts the verdict from a worker's answer.
func DecodeResponse(raw []byte) (bool, string, error) {
	var resp Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return false, "", fmt.Errorf("decode response: %w", err)
	}
	if resp.Error != "" {
		return false, "", fmt.Errorf("%w: %s", ErrRejectedRequest, resp.Error)
	}
	if resp.Authorized == nil {
		return false, "", fmt.Errorf("decode response %s: missing verdict", raw)
	}
	return *resp.Authorized, resp.Verdict, nil
}

// Serve runs one request on a fresh interpreter and returns the encoded response.
// Malformed requests are answered with an error message, never with a Go error.
func Serve(raw []byte, opts ...vm.Option) []byte {
	outcome, err := serve(raw, opts...)
	resp := Response{Error: errString(err)}
	if err == nil {
		resp.Authorized = &outcome.Authorized
		resp.Verdict = string(outcome.Verdict)
	}
	out, err := json.Marshal(resp)
	if err != nil {
		return []byte(`{"error":"encode response"}`)
	}
	return out
}

func serve(raw []byte, opts ...vm.Option) (vm.Outcome, error) {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return vm.Outcome{}, fmt.Errorf("decode request: %w", err)
	}
	hash, err := hex.DecodeString(req.Hash)
	if err != nil {
		return vm.Outcome{}, fmt.Errorf("decode hash: %w", err)
	}
	output, err := hex.DecodeString(req.Output)
	if err != nil {
		return vm.Outcome{}, fmt.Errorf("decode output: %w", err)
	}
	input, err := hex.DecodeString(req.Input)
	if err != nil {
		return vm.Outcome{}, fmt.Errorf("decode input: %w", err)
	}
	return vm.NewInterpreter(opts...).Execute(hash, output, input)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
