package linkedin

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/sourcingkit/sourcer/internal/candidate"
)

const SearchPath = "/peopleSearch"

// SearchParams describes one candidate search. Zero values are omitted from
// the query.
type SearchParams struct {
	Keywords         string   `mapstructure:"keywords"`
	Title            string   `mapstructure:"title"`
	Location         string   `mapstructure:"location"`
	LocationRadiusKm int      `mapstructure:"location-radius-km"`
	ExperienceLevel  string   `mapstructure:"experience-level"`
	Skills           []string `mapstructure:"skills"`
	MaxResults       int      `mapstructure:"max-results"`
}

// Broaden relaxes the search criteria in place: the title constraint is
// dropped, the location radius doubles and the skill list is cut to its
// strongest half. Used by the workflow when a search round comes back thin.
func (p *SearchParams) Broaden() {
	p.Title = ""

	if p.LocationRadiusKm > 0 {
		p.LocationRadiusKm *= 2
	} else {
		p.LocationRadiusKm = 50
	}

	p.ExperienceLevel = ""

	if len(p.Skills) > 1 {
		p.Skills = p.Skills[:(len(p.Skills)+1)/2]
	}
}

// Search runs a people search and returns the discovered candidates. Zero
// results are a valid outcome.
func (c *Client) Search(ctx context.Context, params *SearchParams) (*candidate.List, error) {
	if params == nil {
		return nil, fmt.Errorf("search params are required")
	}

	endpoint := fmt.Sprintf("%s%s", c.APIURL, SearchPath)

	elements, err := c.GetElements(ctx, endpoint, buildQuery(params))
	if err != nil {
		return nil, fmt.Errorf("people search: %w", err)
	}

	var records []*candidate.Record
	cfg := &mapstructure.DecoderConfig{
		Result:  &records,
		TagName: "json",
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(elements); err != nil {
		return nil, fmt.Errorf("decode search results: %w", err)
	}

	list := &candidate.List{}
	list.Append(records...)

	if params.MaxResults > 0 && list.Len() > params.MaxResults {
		list.Items = list.Items[:params.MaxResults]
	}

	return list, nil
}

func buildQuery(params *SearchParams) url.Values {
	q := url.Values{}

	set := func(key, value string) {
		if value = strings.TrimSpace(value); value != "" {
			q.Set(key, value)
		}
	}

	set("keywords", params.Keywords)
	set("title", params.Title)
	set("location", params.Location)
	set("experienceLevel", params.ExperienceLevel)

	if params.LocationRadiusKm > 0 {
		q.Set("locationRadius", strconv.Itoa(params.LocationRadiusKm))
	}

	for _, skill := range params.Skills {
		if skill = strings.TrimSpace(skill); skill != "" {
			q.Add("skill", skill)
		}
	}

	return q
}
