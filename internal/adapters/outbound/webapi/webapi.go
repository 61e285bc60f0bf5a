package webapi

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sonarprep/sonarprep/internal/domain"
	"github.com/sonarprep/sonarprep/internal/logging"
)

// Client implements domain.AnalysisServer against a quality server's web
// API. Every substituted URL parameter is percent-encoded; the base
// address loses any trailing slash at construction.
type Client struct {
	baseURL          string
	downloader       domain.Downloader
	propertyDefaults map[string]string
}

func New(serverURL string, d domain.Downloader) *Client {
	return &Client{
		baseURL:    strings.TrimRight(serverURL, "/"),
		downloader: d,
		propertyDefaults: map[string]string{
			domain.TestProjectPatternKey: domain.TestProjectPatternDefault,
		},
	}
}

// WithPropertyDefault returns a copy that injects value under key when
// the server response omits it. The test-project pattern ships as the
// only built-in default.
func (c *Client) WithPropertyDefault(key, value string) *Client {
	cp := *c
	cp.propertyDefaults = make(map[string]string, len(c.propertyDefaults)+1)
	for k, v := range c.propertyDefaults {
		cp.propertyDefaults[k] = v
	}
	cp.propertyDefaults[key] = value
	return &cp
}

// BaseURL returns the normalized server address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// urlFor substitutes escaped args into a path template and prefixes the
// server address. The template gets a single leading slash.
func (c *Client) urlFor(format string, args ...string) string {
	escaped := make([]interface{}, len(args))
	for i, a := range args {
		escaped[i] = escape(a)
	}
	path := fmt.Sprintf(format, escaped...)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// escape percent-encodes a parameter. Spaces must become %20 rather than
// "+" because some parameters sit in path position.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// QualityProfile resolves the profile for a project, branch and language.
// The project-scoped listing is tried first; if the server reports it
// not-found the language-wide listing decides via its default marker.
func (c *Client) QualityProfile(projectKey, branch, language string) (string, bool, error) {
	if err := domain.RequireNonBlank("projectKey", projectKey, "language", language); err != nil {
		return "", false, err
	}

	projectID := domain.ProjectID(projectKey, branch)
	contents, found, err := c.downloader.DownloadIfExists(
		c.urlFor("api/profiles/list?language=%s&project=%s", language, projectID))
	if err != nil {
		return "", false, err
	}
	if !found {
		logging.Debug("no project-scoped profile listing, using language default", "language", language)
		contents, err = c.downloader.Download(c.urlFor("api/profiles/list?language=%s", language))
		if err != nil {
			return "", false, err
		}
	}

	var profiles []profilePayload
	if err := json.Unmarshal([]byte(contents), &profiles); err != nil {
		return "", false, fmt.Errorf("parsing profile list: %w", err)
	}

	switch len(profiles) {
	case 0:
		return "", false, nil
	case 1:
		return profiles[0].Name, true, nil
	}

	name, defaults := "", 0
	for _, p := range profiles {
		if bool(p.Default) {
			defaults++
			name = p.Name
		}
	}
	if defaults != 1 {
		return "", false, &domain.AmbiguousProfileError{
			Language:   language,
			Candidates: len(profiles),
			Defaults:   defaults,
		}
	}
	return name, true, nil
}

// ActiveRuleKeys lists the profile's active rule identifiers in the given
// repository, in server order. A rule carrying a "CheckId" parameter
// yields that parameter's value instead of its public key.
func (c *Client) ActiveRuleKeys(profileName, language, repository string) ([]string, error) {
	if err := domain.RequireNonBlank("profileName", profileName, "language", language, "repository", repository); err != nil {
		return nil, err
	}

	contents, err := c.downloader.Download(
		c.urlFor("api/profiles/index?language=%s&name=%s", language, profileName))
	if err != nil {
		return nil, err
	}

	var profiles []profileIndexPayload
	if err := json.Unmarshal([]byte(contents), &profiles); err != nil {
		return nil, fmt.Errorf("parsing profile index: %w", err)
	}

	var match *profileIndexPayload
	for i := range profiles {
		if profiles[i].Name == profileName {
			if match != nil {
				return nil, fmt.Errorf("profile index lists %q more than once", profileName)
			}
			match = &profiles[i]
		}
	}
	// a missing profile or a profile without a "rules" field has no
	// active rules; an empty "rules" array means the same thing
	if match == nil || match.Rules == nil {
		return []string{}, nil
	}

	keys := make([]string, 0, len(match.Rules))
	for _, r := range match.Rules {
		if r.Repo != repository {
			continue
		}
		keys = append(keys, r.identifier())
	}
	return keys, nil
}

// InternalKeys maps "repository:ruleKey" composites to plugin-internal
// identifiers. Rules without an internalKey stay out of the map.
func (c *Client) InternalKeys(repository string) (map[string]string, error) {
	if err := domain.RequireNonBlank("repository", repository); err != nil {
		return nil, err
	}

	contents, err := c.downloader.Download(
		c.urlFor("api/rules/search?f=internalKey&ps=%s&repositories=%s", strconv.Itoa(math.MaxInt32), repository))
	if err != nil {
		return nil, err
	}

	var payload rulesSearchPayload
	if err := json.Unmarshal([]byte(contents), &payload); err != nil {
		return nil, fmt.Errorf("parsing rule search: %w", err)
	}

	keys := make(map[string]string, len(payload.Rules))
	for _, r := range payload.Rules {
		if r.InternalKey == "" {
			continue
		}
		keys[r.Key] = r.InternalKey
	}
	return keys, nil
}

// Properties returns the project-scoped analysis settings. The historical
// test-project-pattern default is injected when the server omits it.
func (c *Client) Properties(projectKey, branch string) (map[string]string, error) {
	if err := domain.RequireNonBlank("projectKey", projectKey); err != nil {
		return nil, err
	}

	contents, err := c.downloader.Download(
		c.urlFor("api/properties?resource=%s", domain.ProjectID(projectKey, branch)))
	if err != nil {
		return nil, err
	}

	var payload []propertyPayload
	if err := json.Unmarshal([]byte(contents), &payload); err != nil {
		return nil, fmt.Errorf("parsing properties: %w", err)
	}

	props := make(map[string]string, len(payload)+len(c.propertyDefaults))
	for _, p := range payload {
		props[p.Key] = p.Value
	}
	for key, value := range c.propertyDefaults {
		if _, ok := props[key]; !ok {
			props[key] = value
		}
	}
	return props, nil
}

// InstalledPlugins lists installed plugin keys in server order.
func (c *Client) InstalledPlugins() ([]string, error) {
	contents, err := c.downloader.Download(c.urlFor("api/updatecenter/installed_plugins"))
	if err != nil {
		return nil, err
	}

	var payload []pluginPayload
	if err := json.Unmarshal([]byte(contents), &payload); err != nil {
		return nil, fmt.Errorf("parsing plugin list: %w", err)
	}

	keys := make([]string, 0, len(payload))
	for _, p := range payload {
		keys = append(keys, p.Key)
	}
	return keys, nil
}

// ProfileExport fetches a rendered profile in the given format. Not-found
// is a negative outcome, not an error.
func (c *Client) ProfileExport(profileName, language, format string) (string, bool, error) {
	if err := domain.RequireNonBlank("profileName", profileName, "language", language, "format", format); err != nil {
		return "", false, err
	}
	return c.downloader.DownloadIfExists(
		c.urlFor("profiles/export?format=%s&language=%s&name=%s", format, language, profileName))
}

// DownloadEmbeddedFile saves a plugin's static file into targetDir under
// its own name.
func (c *Client) DownloadEmbeddedFile(pluginKey, fileName, targetDir string) (bool, error) {
	if err := domain.RequireNonBlank("pluginKey", pluginKey, "fileName", fileName, "targetDir", targetDir); err != nil {
		return false, err
	}
	return c.downloader.DownloadFileIfExists(
		c.urlFor("static/%s/%s", pluginKey, fileName),
		filepath.Join(targetDir, fileName))
}
