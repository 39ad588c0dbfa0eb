package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jharlow/reel/internal/domain"
	"github.com/jharlow/reel/internal/query"
)

const graphqlPath = "/api/graphql"

// MediaFilter parameterizes mediaList queries. Zero-valued fields are
// omitted from the request.
type MediaFilter struct {
	ParentID      *int               `json:"parentId,omitempty"`
	SeasonNumbers []int              `json:"seasonNumbers,omitempty"`
	Search        string             `json:"search,omitempty"`
	MediaTypes    []domain.MediaType `json:"mediaTypes,omitempty"`
	Watched       *bool              `json:"watched,omitempty"`
	OrderBy       string             `json:"orderBy,omitempty"`
}

// FilterFromState builds the wire filter from a view state
func FilterFromState(s query.State) MediaFilter {
	f := MediaFilter{
		ParentID:      s.ParentID,
		SeasonNumbers: s.Seasons,
		Search:        strings.TrimSpace(s.Search),
		MediaTypes:    s.MediaTypes,
		Watched:       s.Watched,
	}
	if s.OrderBy != "" {
		f.OrderBy = string(s.OrderBy)
	}
	return f
}

// MediaPage is one page of a cursor-paginated media listing
type MediaPage struct {
	Media       []domain.Media
	EndCursor   string
	HasNextPage bool
}

// graphqlRequest is the POST envelope for the GraphQL endpoint
type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors"`
}

const mediaFields = `
	id
	name
	mediaType
	description
	rating
	runtimeMinutes
	startDate
	endDate
	seasonNumber
	episodeNumber
	parentId
	seasons
	posterUrl
	thumbnailUrl
	backgroundUrl
	parent {
		id
		name
	}
	defaultConnection {
		id
		key
		backendName
	}
	watchState {
		percentage
		updatedAt
	}
`

var mediaListQuery = fmt.Sprintf(`
	query MediaList($filter: MediaFilter, $first: Int, $after: String) {
		mediaList(filter: $filter, first: $first, after: $after) {
			edges {
				node {
					%s
				}
			}
			pageInfo {
				endCursor
				hasNextPage
			}
		}
	}
`, mediaFields)

var mediaByIDQuery = fmt.Sprintf(`
	query MediaByID($id: Int!) {
		media(id: $id) {
			%s
		}
	}
`, mediaFields)

const signupMutation = `
	mutation Signup($username: String!, $password: String!) {
		signup(username: $username, password: $password) {
			id
			username
			token
		}
	}
`

// execute posts a GraphQL request and unmarshals data into dest.
// extraHeaders may be nil.
func (c *Client) execute(ctx context.Context, req graphqlRequest, extraHeaders map[string]string, dest any) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to encode graphql request: %w", err)
	}

	body, err := c.doRequest(ctx, http.MethodPost, graphqlPath, extraHeaders, payload)
	if err != nil {
		return err
	}

	var resp graphqlResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("failed to parse graphql response: %w", err)
	}

	if len(resp.Errors) > 0 {
		msgs := make([]string, len(resp.Errors))
		for i, e := range resp.Errors {
			msgs[i] = e.Message
		}
		joined := strings.Join(msgs, "; ")
		if strings.Contains(strings.ToLower(joined), "unauthorized") {
			return fmt.Errorf("%w: %s", domain.ErrUnauthorized, joined)
		}
		return fmt.Errorf("graphql: %s", joined)
	}

	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, dest); err != nil {
		return fmt.Errorf("failed to parse graphql data: %w", err)
	}
	return nil
}

// MediaList fetches one page of the catalog. after is the cursor from the
// previous page's PageInfo, empty for the first page.
func (c *Client) MediaList(ctx context.Context, filter MediaFilter, first int, after string) (MediaPage, error) {
	variables := map[string]any{
		"filter": filter,
		"first":  first,
	}
	if after != "" {
		variables["after"] = after
	}

	var data struct {
		MediaList struct {
			Edges []struct {
				Node mediaDTO `json:"node"`
			} `json:"edges"`
			PageInfo struct {
				EndCursor   string `json:"endCursor"`
				HasNextPage bool   `json:"hasNextPage"`
			} `json:"pageInfo"`
		} `json:"mediaList"`
	}

	err := c.execute(ctx, graphqlRequest{Query: mediaListQuery, Variables: variables}, nil, &data)
	if err != nil {
		return MediaPage{}, err
	}

	page := MediaPage{
		EndCursor:   data.MediaList.PageInfo.EndCursor,
		HasNextPage: data.MediaList.PageInfo.HasNextPage,
	}
	for _, edge := range data.MediaList.Edges {
		page.Media = append(page.Media, edge.Node.toDomain())
	}
	return page, nil
}

// MediaByID fetches a single media record with its full detail fields
func (c *Client) MediaByID(ctx context.Context, id int) (domain.Media, error) {
	var data struct {
		Media *mediaDTO `json:"media"`
	}

	err := c.execute(ctx, graphqlRequest{
		Query:     mediaByIDQuery,
		Variables: map[string]any{"id": id},
	}, nil, &data)
	if err != nil {
		return domain.Media{}, err
	}
	if data.Media == nil {
		return domain.Media{}, domain.ErrNotFound
	}
	return data.Media.toDomain(), nil
}

// Seasons returns the season numbers of a show
func (c *Client) Seasons(ctx context.Context, showID int) ([]int, error) {
	media, err := c.MediaByID(ctx, showID)
	if err != nil {
		return nil, err
	}
	if media.Type != domain.MediaTypeShow {
		return nil, fmt.Errorf("media %d is not a series", showID)
	}
	return media.Seasons, nil
}

// Signup creates the first user. The one-time setup code from the server
// console travels in the x-setup-code header, not the mutation body.
func (c *Client) Signup(ctx context.Context, username, password, setupCode string) (string, error) {
	var data struct {
		Signup struct {
			ID       int    `json:"id"`
			Username string `json:"username"`
			Token    string `json:"token"`
		} `json:"signup"`
	}

	err := c.execute(ctx, graphqlRequest{
		Query: signupMutation,
		Variables: map[string]any{
			"username": username,
			"password": password,
		},
	}, map[string]string{"x-setup-code": setupCode}, &data)
	if err != nil {
		return "", err
	}

	// Some server versions return no token from signup; fall back to a
	// regular login in that case.
	if data.Signup.Token == "" {
		return c.Login(ctx, username, password)
	}

	c.SetToken(data.Signup.Token)
	return data.Signup.Token, nil
}

// IsAuthError reports whether err is an authentication failure
func IsAuthError(err error) bool {
	return errors.Is(err, domain.ErrUnauthorized)
}
