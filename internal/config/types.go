package config

// MissPolicy controls what the Gliffy rewriter does when a referenced
// attachment does not exist on the page.
type MissPolicy string

const (
	// MissDrop removes the macro entirely, matching upstream behavior.
	MissDrop MissPolicy = "drop"
	// MissKeep leaves the original macro untouched.
	MissKeep MissPolicy = "keep"
)

// ServiceConfig holds the connection settings for one Atlassian service.
// The token is never written to the config file; it is read from the
// environment (ATLBRIDGE_JIRA_TOKEN / ATLBRIDGE_CONFLUENCE_TOKEN, or the
// conventional *_PERSONAL_ACCESS_TOKEN names).
type ServiceConfig struct {
	BaseURL string `yaml:"base_url" koanf:"base_url"`
	Token   string `yaml:"-" koanf:"token"`
}

// AzureOpenAIConfig holds the Azure OpenAI settings used for image
// description. All fields may also come from the conventional
// AZURE_OPENAI_* environment variables.
type AzureOpenAIConfig struct {
	Endpoint   string `yaml:"endpoint" koanf:"endpoint"`
	Deployment string `yaml:"deployment" koanf:"deployment"`
	APIVersion string `yaml:"api_version" koanf:"api_version"`
	APIKey     string `yaml:"-" koanf:"api_key"`
}

// Configured reports whether enough settings are present to make
// chat-completion calls.
func (c AzureOpenAIConfig) Configured() bool {
	return c.Endpoint != "" && c.Deployment != "" && c.APIKey != ""
}

// RewriteConfig holds settings for the Gliffy macro rewriter.
type RewriteConfig struct {
	MissPolicy MissPolicy `yaml:"miss_policy" koanf:"miss_policy"`
}

// HTTPConfig holds settings for the optional HTTP transport.
type HTTPConfig struct {
	Addr     string `yaml:"addr" koanf:"addr"`
	AllowAll bool   `yaml:"allow_all" koanf:"allow_all"`
}

// Config is the top-level atlbridge configuration, corresponding to
// .atlbridge.yml.
type Config struct {
	Jira           ServiceConfig     `yaml:"jira" koanf:"jira"`
	Confluence     ServiceConfig     `yaml:"confluence" koanf:"confluence"`
	OpenAI         AzureOpenAIConfig `yaml:"openai" koanf:"openai"`
	Rewrite        RewriteConfig     `yaml:"rewrite" koanf:"rewrite"`
	HTTP           HTTPConfig        `yaml:"http" koanf:"http"`
	TimeoutSeconds int               `yaml:"timeout" koanf:"timeout"`
}
