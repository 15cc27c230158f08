package cli_test

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

const testBlockhash = "5NzX7jrPWeTkGsDnVnszdEa7T3Yyr3nSgyc78z3CwjWQ"

type rpcHandler func(params []json.RawMessage) (any, error)

// rpcStub is a JSON-RPC server answering the Solana methods the CLI calls.
type rpcStub struct {
	mu       sync.Mutex
	handlers map[string]rpcHandler
	calls    map[string]int
	sent     []*solana.Transaction
	sentRaw  []string
	status   map[string]any
}

func newRPCStub(t *testing.T) (*rpcStub, string) {
	t.Helper()
	stub := &rpcStub{
		calls:  map[string]int{},
		status: map[string]any{"slot": 1, "confirmations": nil, "err": nil, "confirmationStatus": "finalized"},
	}
	stub.handlers = map[string]rpcHandler{
		"getLatestBlockhash":   stub.latestBlockhash,
		"sendTransaction":      stub.sendTransaction,
		"getSignatureStatuses": stub.signatureStatuses,
		"getTransaction":       stub.transaction,
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     json.RawMessage   `json:"id"`
			Method string            `json:"method"`
			Params []json.RawMessage `json:"params"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		stub.mu.Lock()
		stub.calls[req.Method]++
		handler, ok := stub.handlers[req.Method]
		stub.mu.Unlock()

		resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
		if !ok {
			resp["error"] = map[string]any{"code": -32601, "message": "method not found: " + req.Method}
		} else if result, err := handler(req.Params); err != nil {
			resp["error"] = map[string]any{"code": -32002, "message": err.Error()}
		} else {
			resp["result"] = result
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return stub, srv.URL
}

func (s *rpcStub) handle(method string, h rpcHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[method] = h
}

func (s *rpcStub) setStatus(status map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

func (s *rpcStub) callCount(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

func (s *rpcStub) sentTransactions() []*solana.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*solana.Transaction(nil), s.sent...)
}

func (s *rpcStub) latestBlockhash(_ []json.RawMessage) (any, error) {
	return map[string]any{
		"context": map[string]any{"slot": 1},
		"value":   map[string]any{"blockhash": testBlockhash, "lastValidBlockHeight": 100},
	}, nil
}

func (s *rpcStub) sendTransaction(params []json.RawMessage) (any, error) {
	if len(params) == 0 {
		return nil, errors.New("missing transaction")
	}
	var encoded string
	if err := json.Unmarshal(params[0], &encoded); err != nil {
		return nil, fmt.Errorf("invalid transaction param: %w", err)
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("invalid base64: %w", err)
	}
	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid transaction: %w", err)
	}
	if len(tx.Signatures) == 0 {
		return nil, errors.New("unsigned transaction")
	}

	s.mu.Lock()
	s.sent = append(s.sent, tx)
	s.sentRaw = append(s.sentRaw, encoded)
	s.mu.Unlock()
	return tx.Signatures[0].String(), nil
}

func (s *rpcStub) signatureStatuses(_ []json.RawMessage) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return map[string]any{
		"context": map[string]any{"slot": 1},
		"value":   []any{s.status},
	}, nil
}

func (s *rpcStub) transaction(_ []json.RawMessage) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sentRaw) == 0 {
		return nil, nil
	}
	return map[string]any{
		"slot":        1,
		"transaction": []any{s.sentRaw[len(s.sentRaw)-1], "base64"},
		"meta": map[string]any{
			"err":          nil,
			"fee":          5000,
			"preBalances":  []uint64{},
			"postBalances": []uint64{},
		},
	}, nil
}

func accountInfoResult(owner solana.PublicKey, data []byte) map[string]any {
	return map[string]any{
		"context": map[string]any{"slot": 1},
		"value": map[string]any{
			"data":       []any{base64.StdEncoding.EncodeToString(data), "base64"},
			"executable": false,
			"lamports":   1_000_000,
			"owner":      owner.String(),
			"rentEpoch":  0,
			"space":      len(data),
		},
	}
}
