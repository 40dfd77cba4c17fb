package httpTaskSource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/kleros/linguo-engine/pkg/types"
)

// HttpTaskSource fetches task snapshots from an indexer's HTTP endpoint.
// The endpoint takes a fromBlock query parameter and returns the snapshots
// that changed after it plus the latest block the indexer has seen.
type HttpTaskSource struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewHttpTaskSource(endpoint string, logger *zap.Logger) *HttpTaskSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HttpTaskSource{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

type fetchResponse struct {
	Tasks       []*types.Task `json:"tasks"`
	LatestBlock uint64        `json:"latestBlock"`
}

// FetchTasks implements taskPoller.TaskSource.
func (s *HttpTaskSource) FetchTasks(ctx context.Context, fromBlock uint64) ([]*types.Task, uint64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint, nil)
	if err != nil {
		return nil, 0, err
	}
	q := req.URL.Query()
	q.Set("fromBlock", strconv.FormatUint(fromBlock, 10))
	req.URL.RawQuery = q.Encode()

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch tasks: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, 0, fmt.Errorf("task source returned status %d: %s", resp.StatusCode, string(payload))
	}

	var decoded fetchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, 0, fmt.Errorf("failed to decode task source response: %w", err)
	}
	return decoded.Tasks, decoded.LatestBlock, nil
}
