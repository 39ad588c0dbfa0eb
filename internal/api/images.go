package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ImageProxyPath returns the server path that resizes a remote image to the
// requested height. The original URL travels as a path segment.
func ImageProxyPath(original string, height int) string {
	return fmt.Sprintf("/api/image-proxy/%s?height=%d", url.PathEscape(original), height)
}

// ImageProxyURL returns the absolute proxied URL for a remote image
func (c *Client) ImageProxyURL(original string, height int) string {
	return c.baseURL + ImageProxyPath(original, height)
}

// StreamManifestURL returns the adaptive-streaming index for a connection
func (c *Client) StreamManifestURL(connectionID int) string {
	return fmt.Sprintf("%s/api/hls/stream/%d/index.m3u8", c.baseURL, connectionID)
}

// FetchImage downloads a resized image through the proxy
func (c *Client) FetchImage(ctx context.Context, original string, height int) ([]byte, error) {
	if original == "" {
		return nil, fmt.Errorf("no image URL")
	}
	return c.doRequest(ctx, http.MethodGet, ImageProxyPath(original, height), nil, nil)
}
