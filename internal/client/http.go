package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/IvubaServices/FarmSecure-sub000/internal/feedwatch"
	"github.com/IvubaServices/FarmSecure-sub000/internal/model"
)

// HTTPClient implements FarmClient using the farms HTTP/JSON REST API.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

var _ FarmClient = (*HTTPClient)(nil)

// NewHTTPClient creates a new HTTP client targeting the given base URL
// (e.g. "http://localhost:8080"). When token is non-empty, an Authorization
// header is set on every request.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
	}
}

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

// --- Fire zones ---

func (c *HTTPClient) CreateFireZone(ctx context.Context, req *CreateFireZoneRequest) (*model.FireZone, error) {
	var zone model.FireZone
	if err := c.doJSON(ctx, http.MethodPost, "/v1/fire-zones", req, &zone); err != nil {
		return nil, err
	}
	return &zone, nil
}

func (c *HTTPClient) GetFireZone(ctx context.Context, id string) (*model.FireZone, error) {
	var zone model.FireZone
	if err := c.doJSON(ctx, http.MethodGet, "/v1/fire-zones/"+url.PathEscape(id), nil, &zone); err != nil {
		return nil, err
	}
	return &zone, nil
}

func (c *HTTPClient) ListFireZones(ctx context.Context, filter model.ZoneFilter) ([]model.FireZone, error) {
	q := url.Values{}
	if len(filter.Status) > 0 {
		parts := make([]string, len(filter.Status))
		for i, s := range filter.Status {
			parts[i] = string(s)
		}
		q.Set("status", strings.Join(parts, ","))
	}
	if len(filter.Severity) > 0 {
		parts := make([]string, len(filter.Severity))
		for i, s := range filter.Severity {
			parts[i] = string(s)
		}
		q.Set("severity", strings.Join(parts, ","))
	}
	if filter.Limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", filter.Limit))
	}

	path := "/v1/fire-zones"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp struct {
		FireZones []model.FireZone `json:"fire_zones"`
	}
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.FireZones, nil
}

func (c *HTTPClient) UpdateFireZone(ctx context.Context, id string, req *UpdateFireZoneRequest) (*model.FireZone, error) {
	var zone model.FireZone
	if err := c.doJSON(ctx, http.MethodPatch, "/v1/fire-zones/"+url.PathEscape(id), req, &zone); err != nil {
		return nil, err
	}
	return &zone, nil
}

func (c *HTTPClient) DeleteFireZone(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/fire-zones/"+url.PathEscape(id), nil, nil)
}

// --- Security points ---

func (c *HTTPClient) CreateSecurityPoint(ctx context.Context, req *CreateSecurityPointRequest) (*model.SecurityPoint, error) {
	var point model.SecurityPoint
	if err := c.doJSON(ctx, http.MethodPost, "/v1/security-points", req, &point); err != nil {
		return nil, err
	}
	return &point, nil
}

func (c *HTTPClient) GetSecurityPoint(ctx context.Context, id string) (*model.SecurityPoint, error) {
	var point model.SecurityPoint
	if err := c.doJSON(ctx, http.MethodGet, "/v1/security-points/"+url.PathEscape(id), nil, &point); err != nil {
		return nil, err
	}
	return &point, nil
}

func (c *HTTPClient) ListSecurityPoints(ctx context.Context) ([]model.SecurityPoint, error) {
	var resp struct {
		SecurityPoints []model.SecurityPoint `json:"security_points"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/security-points", nil, &resp); err != nil {
		return nil, err
	}
	return resp.SecurityPoints, nil
}

func (c *HTTPClient) UpdateSecurityPoint(ctx context.Context, id string, req *UpdateSecurityPointRequest) (*model.SecurityPoint, error) {
	var point model.SecurityPoint
	if err := c.doJSON(ctx, http.MethodPatch, "/v1/security-points/"+url.PathEscape(id), req, &point); err != nil {
		return nil, err
	}
	return &point, nil
}

func (c *HTTPClient) DeleteSecurityPoint(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/security-points/"+url.PathEscape(id), nil, nil)
}

// --- Team members ---

func (c *HTTPClient) CreateTeamMember(ctx context.Context, req *CreateTeamMemberRequest) (*model.TeamMember, error) {
	var member model.TeamMember
	if err := c.doJSON(ctx, http.MethodPost, "/v1/team-members", req, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

func (c *HTTPClient) GetTeamMember(ctx context.Context, id string) (*model.TeamMember, error) {
	var member model.TeamMember
	if err := c.doJSON(ctx, http.MethodGet, "/v1/team-members/"+url.PathEscape(id), nil, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

func (c *HTTPClient) ListTeamMembers(ctx context.Context) ([]model.TeamMember, error) {
	var resp struct {
		TeamMembers []model.TeamMember `json:"team_members"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/team-members", nil, &resp); err != nil {
		return nil, err
	}
	return resp.TeamMembers, nil
}

func (c *HTTPClient) UpdateTeamMember(ctx context.Context, id string, req *UpdateTeamMemberRequest) (*model.TeamMember, error) {
	var member model.TeamMember
	if err := c.doJSON(ctx, http.MethodPatch, "/v1/team-members/"+url.PathEscape(id), req, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

func (c *HTTPClient) UpdateTeamMemberStatus(ctx context.Context, id string, status model.MemberStatus) (*model.TeamMember, error) {
	s := string(status)
	return c.UpdateTeamMember(ctx, id, &UpdateTeamMemberRequest{Status: &s})
}

func (c *HTTPClient) UpdateTeamMemberLocation(ctx context.Context, id string, lat, lng float64, visibleOnMap bool) (*model.TeamMember, error) {
	return c.UpdateTeamMember(ctx, id, &UpdateTeamMemberRequest{
		Latitude:     &lat,
		Longitude:    &lng,
		VisibleOnMap: &visibleOnMap,
	})
}

func (c *HTTPClient) DeleteTeamMember(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/team-members/"+url.PathEscape(id), nil, nil)
}

// --- Snapshot fetches ---

// FetchFireZones returns every fire zone, newest first. Part of the
// live.Remote surface used to seed and refresh dashboard state.
func (c *HTTPClient) FetchFireZones(ctx context.Context) ([]model.FireZone, error) {
	return c.ListFireZones(ctx, model.ZoneFilter{})
}

func (c *HTTPClient) FetchSecurityPoints(ctx context.Context) ([]model.SecurityPoint, error) {
	return c.ListSecurityPoints(ctx)
}

func (c *HTTPClient) FetchTeamMembers(ctx context.Context) ([]model.TeamMember, error) {
	return c.ListTeamMembers(ctx)
}

// --- Notifications ---

func (c *HTTPClient) CreateNotification(ctx context.Context, req *CreateNotificationRequest) (*model.Notification, error) {
	var n model.Notification
	if err := c.doJSON(ctx, http.MethodPost, "/v1/notifications", req, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

func (c *HTTPClient) ListNotifications(ctx context.Context) ([]model.Notification, error) {
	var resp struct {
		Notifications []model.Notification `json:"notifications"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/notifications", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Notifications, nil
}

func (c *HTTPClient) MarkNotificationRead(ctx context.Context, id string) (*model.Notification, error) {
	var n model.Notification
	if err := c.doJSON(ctx, http.MethodPost, "/v1/notifications/"+url.PathEscape(id)+"/read", nil, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

func (c *HTTPClient) DeleteNotification(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/notifications/"+url.PathEscape(id), nil, nil)
}

// --- Map configs ---

func (c *HTTPClient) CreateMapConfig(ctx context.Context, req *CreateMapConfigRequest) (*model.MapConfig, error) {
	var mc model.MapConfig
	if err := c.doJSON(ctx, http.MethodPost, "/v1/map-configs", req, &mc); err != nil {
		return nil, err
	}
	return &mc, nil
}

func (c *HTTPClient) GetMapConfig(ctx context.Context, id string) (*model.MapConfig, error) {
	var mc model.MapConfig
	if err := c.doJSON(ctx, http.MethodGet, "/v1/map-configs/"+url.PathEscape(id), nil, &mc); err != nil {
		return nil, err
	}
	return &mc, nil
}

func (c *HTTPClient) ListMapConfigs(ctx context.Context) ([]model.MapConfig, error) {
	var resp struct {
		MapConfigs []model.MapConfig `json:"map_configs"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/map-configs", nil, &resp); err != nil {
		return nil, err
	}
	return resp.MapConfigs, nil
}

func (c *HTTPClient) UpdateMapConfig(ctx context.Context, id string, req *UpdateMapConfigRequest) (*model.MapConfig, error) {
	var mc model.MapConfig
	if err := c.doJSON(ctx, http.MethodPatch, "/v1/map-configs/"+url.PathEscape(id), req, &mc); err != nil {
		return nil, err
	}
	return &mc, nil
}

func (c *HTTPClient) DeleteMapConfig(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/map-configs/"+url.PathEscape(id), nil, nil)
}

// --- Live feeds ---

func (c *HTTPClient) CreateLiveFeed(ctx context.Context, req *CreateLiveFeedRequest) (*model.LiveFeedSetting, error) {
	var feed model.LiveFeedSetting
	if err := c.doJSON(ctx, http.MethodPost, "/v1/live-feeds", req, &feed); err != nil {
		return nil, err
	}
	return &feed, nil
}

func (c *HTTPClient) GetLiveFeed(ctx context.Context, id string) (*model.LiveFeedSetting, error) {
	var feed model.LiveFeedSetting
	if err := c.doJSON(ctx, http.MethodGet, "/v1/live-feeds/"+url.PathEscape(id), nil, &feed); err != nil {
		return nil, err
	}
	return &feed, nil
}

func (c *HTTPClient) ListLiveFeeds(ctx context.Context) ([]model.LiveFeedSetting, error) {
	var resp struct {
		LiveFeeds []model.LiveFeedSetting `json:"live_feeds"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/live-feeds", nil, &resp); err != nil {
		return nil, err
	}
	return resp.LiveFeeds, nil
}

func (c *HTTPClient) UpdateLiveFeed(ctx context.Context, id string, req *UpdateLiveFeedRequest) (*model.LiveFeedSetting, error) {
	var feed model.LiveFeedSetting
	if err := c.doJSON(ctx, http.MethodPatch, "/v1/live-feeds/"+url.PathEscape(id), req, &feed); err != nil {
		return nil, err
	}
	return &feed, nil
}

func (c *HTTPClient) DeleteLiveFeed(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/live-feeds/"+url.PathEscape(id), nil, nil)
}

func (c *HTTPClient) FeedHeartbeat(ctx context.Context, feedID string) error {
	return c.doJSON(ctx, http.MethodPost, "/v1/live-feeds/"+url.PathEscape(feedID)+"/heartbeat", nil, nil)
}

func (c *HTTPClient) GetFeedRoster(ctx context.Context, staleThreshold time.Duration) ([]feedwatch.Entry, error) {
	path := "/v1/live-feeds/roster"
	if staleThreshold > 0 {
		path += "?stale_threshold_secs=" + strconv.Itoa(int(staleThreshold.Seconds()))
	}
	var resp struct {
		Feeds []feedwatch.Entry `json:"feeds"`
	}
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Feeds, nil
}

// --- Health ---

func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/health", nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// --- internal helpers ---

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// doJSON performs an HTTP request with optional JSON body and decodes the JSON response.
// If result is nil, the response body is discarded (for DELETE/204 responses).
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	// 204 No Content, success with no body.
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
