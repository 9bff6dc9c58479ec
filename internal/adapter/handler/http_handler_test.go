package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rl1809/nft-ownership/internal/core/domain"
	"github.com/rl1809/nft-ownership/internal/core/service"
)

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestServer(ownership *mockOwnership, tokens *mockTokens) *httptest.Server {
	mux := http.NewServeMux()
	NewHTTPHandler(ownership, tokens, nil).Register(mux)
	return httptest.NewServer(mux)
}

func get(t *testing.T, url string) (int, envelope) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	var body envelope
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
	return resp.StatusCode, body
}

func TestPing(t *testing.T) {
	server := newTestServer(&mockOwnership{}, &mockTokens{})
	defer server.Close()

	resp, err := http.Get(server.URL + "/ping")
	if err != nil {
		t.Fatalf("GET /ping: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "pong" {
		t.Errorf("expected pong, got %q", body)
	}
}

func TestHealthCheck(t *testing.T) {
	server := newTestServer(&mockOwnership{}, &mockTokens{})
	defer server.Close()

	status, body := get(t, server.URL+"/health")
	if status != http.StatusOK || body.Status != http.StatusOK {
		t.Errorf("expected 200, got %d / %d", status, body.Status)
	}
}

func TestHealthCheck_Failing(t *testing.T) {
	mux := http.NewServeMux()
	h := NewHTTPHandler(&mockOwnership{}, &mockTokens{}, nil)
	h.SetHealthCheck(func(ctx context.Context) error { return errors.New("redis down") })
	h.Register(mux)
	server := httptest.NewServer(mux)
	defer server.Close()

	status, body := get(t, server.URL+"/health")
	if status != http.StatusServiceUnavailable || body.Message != "unhealthy" {
		t.Errorf("unexpected reply %d %q", status, body.Message)
	}
}

func TestOwnership_Success(t *testing.T) {
	ownership := &mockOwnership{report: sampleReport()}
	server := newTestServer(ownership, &mockTokens{})
	defer server.Close()

	status, body := get(t, fmt.Sprintf("%s/v1/nft/ownership?chain_id=56&game_client=0&public_address=%s", server.URL, testAccount))
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", status, body.Message)
	}
	if body.Message != "success" {
		t.Errorf("unexpected message %q", body.Message)
	}

	var report struct {
		PublicAddress string `json:"public_address"`
		Ownerships    []struct {
			NFTID  string `json:"nft_id"`
			Amount uint64 `json:"amount"`
		} `json:"ownerships"`
	}
	if err := json.Unmarshal(body.Data, &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if len(report.Ownerships) != 1 || report.Ownerships[0].NFTID != "10002" || report.Ownerships[0].Amount != 3 {
		t.Errorf("unexpected ownerships %+v", report.Ownerships)
	}

	call := ownership.calls[0]
	if call.network != domain.NetworkBSCMain || call.collection != domain.CollectionNecoFishing {
		t.Errorf("unexpected call %+v", call)
	}
}

func TestOwnership_BadRequests(t *testing.T) {
	ownership := &mockOwnership{report: sampleReport()}
	server := newTestServer(ownership, &mockTokens{})
	defer server.Close()

	cases := map[string]string{
		"unknown chain":       "chain_id=999&game_client=0&public_address=" + testAccount,
		"unknown game client": "chain_id=56&game_client=7&public_address=" + testAccount,
		"invalid address":     "chain_id=56&game_client=0&public_address=0x1234",
	}
	for name, query := range cases {
		t.Run(name, func(t *testing.T) {
			status, body := get(t, server.URL+"/v1/nft/ownership?"+query)
			if status != http.StatusBadRequest || body.Status != http.StatusBadRequest {
				t.Errorf("expected 400, got %d / %d", status, body.Status)
			}
			if string(body.Data) != "null" {
				t.Errorf("expected null data, got %s", body.Data)
			}
		})
	}
}

func TestOwnership_InternalError(t *testing.T) {
	server := newTestServer(&mockOwnership{err: errors.New("boom")}, &mockTokens{})
	defer server.Close()

	status, body := get(t, server.URL+"/v1/nft/ownership?chain_id=56&game_client=0&public_address="+testAccount)
	if status != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", status)
	}
	if body.Message != "internal error" {
		t.Errorf("internal details leaked: %q", body.Message)
	}
}

func TestMetadata(t *testing.T) {
	server := newTestServer(&mockOwnership{metadata: domain.NFTMetadata{Name: "Golden Rod"}}, &mockTokens{})
	defer server.Close()

	status, body := get(t, server.URL+"/v1/nft/metadata/56/10002?game_client=neco_fishing")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", status, body.Message)
	}
	var metadata domain.NFTMetadata
	json.Unmarshal(body.Data, &metadata)
	if metadata.ID != "10002" || metadata.Name != "Golden Rod" {
		t.Errorf("unexpected metadata %+v", metadata)
	}

	status, _ = get(t, server.URL+"/v1/nft/metadata/56/abc?game_client=0")
	if status != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid nft id, got %d", status)
	}
}

func TestMetadata_DefaultsToNecoFishing(t *testing.T) {
	mock := &mockOwnership{metadata: domain.NFTMetadata{Name: "Golden Rod"}}
	server := newTestServer(mock, &mockTokens{})
	defer server.Close()

	status, body := get(t, server.URL+"/v1/nft/metadata/56/10002")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", status, body.Message)
	}

	mock.mu.Lock()
	defer mock.mu.Unlock()
	if len(mock.lookups) != 1 || mock.lookups[0] != domain.CollectionNecoFishing {
		t.Errorf("expected one neco fishing lookup, got %v", mock.lookups)
	}
}

func TestMetadata_Unavailable(t *testing.T) {
	err := fmt.Errorf("%w: fetch", service.ErrMetadataUnavailable)
	server := newTestServer(&mockOwnership{err: err}, &mockTokens{})
	defer server.Close()

	status, body := get(t, server.URL+"/v1/nft/metadata/1/20001?game_client=namiland")
	if status != http.StatusInternalServerError || body.Message != "metadata unavailable" {
		t.Errorf("unexpected reply %d %q", status, body.Message)
	}
}

func TestSnapshots(t *testing.T) {
	ownership := &mockOwnership{}
	server := newTestServer(ownership, &mockTokens{})
	defer server.Close()

	status, body := get(t, server.URL+"/v1/nft/ownership/snapshots?public_address="+testAccount+"&limit=5")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if string(body.Data) != "[]" {
		t.Errorf("expected empty list, got %s", body.Data)
	}
	if ownership.limit != 5 {
		t.Errorf("expected limit 5, got %d", ownership.limit)
	}

	status, _ = get(t, server.URL+"/v1/nft/ownership/snapshots?public_address="+testAccount+"&limit=x")
	if status != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid limit, got %d", status)
	}
}

func TestSnapshots_Disabled(t *testing.T) {
	server := newTestServer(&mockOwnership{err: service.ErrSnapshotsDisabled}, &mockTokens{})
	defer server.Close()

	status, body := get(t, server.URL+"/v1/nft/ownership/snapshots?public_address="+testAccount)
	if status != http.StatusInternalServerError || body.Message != "snapshots are disabled" {
		t.Errorf("unexpected reply %d %q", status, body.Message)
	}
}

func TestERC20Balance(t *testing.T) {
	server := newTestServer(&mockOwnership{}, &mockTokens{})
	defer server.Close()

	status, body := get(t, server.URL+"/v1/erc20/balance?chain_id=97&contract_type=neco&public_address="+testAccount)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", status, body.Message)
	}
	var token domain.ERC20Token
	json.Unmarshal(body.Data, &token)
	if token.Symbol != "neco@bsc_test_network" || token.Decimal != 18 {
		t.Errorf("unexpected token %+v", token)
	}

	status, _ = get(t, server.URL+"/v1/erc20/balance?chain_id=97&contract_type=weth&public_address="+testAccount)
	if status != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown token, got %d", status)
	}
}

func TestStakedInfo(t *testing.T) {
	server := newTestServer(&mockOwnership{}, &mockTokens{})
	defer server.Close()

	status, body := get(t, server.URL+"/v1/neco/staked/bsc_main_network/"+testAccount)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", status, body.Message)
	}
	var info domain.StakedInfo
	json.Unmarshal(body.Data, &info)
	if info.StakedAmount != "5" || info.PublicAddress != testAccount {
		t.Errorf("unexpected info %+v", info)
	}
}
