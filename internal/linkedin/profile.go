package linkedin

import (
	"context"
	"fmt"
	"strings"
)

const profilePath = "/people"

type profileResponse struct {
	About     string   `json:"about"`
	Skills    []string `json:"skills"`
	Positions []struct {
		Title   string `json:"title"`
		Company string `json:"company"`
	} `json:"positions"`
	Email string `json:"email"`
}

// EnrichedProfile is the detailed profile data added during enrichment.
type EnrichedProfile struct {
	About     string
	Skills    []string
	Positions []string
	Email     string
}

// GetProfile fetches the detailed profile for the given external id.
func (c *Client) GetProfile(ctx context.Context, externalID string) (*EnrichedProfile, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, fmt.Errorf("external id is required")
	}

	endpoint := fmt.Sprintf("%s%s/%s", c.APIURL, profilePath, externalID)

	var resp profileResponse
	if err := c.getJSON(ctx, endpoint, nil, &resp); err != nil {
		return nil, fmt.Errorf("get profile %s: %w", externalID, err)
	}

	profile := &EnrichedProfile{
		About:  resp.About,
		Skills: resp.Skills,
		Email:  resp.Email,
	}

	for _, p := range resp.Positions {
		profile.Positions = append(profile.Positions, fmt.Sprintf("%s at %s", p.Title, p.Company))
	}

	return profile, nil
}
