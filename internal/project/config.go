package project

import (
	"bytes"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/newhook/outlook/internal/complexity"
	"github.com/newhook/outlook/internal/estimate"
	"github.com/newhook/outlook/internal/forecast"
	"github.com/newhook/outlook/internal/logging"
	"github.com/newhook/outlook/internal/report"
	"github.com/newhook/outlook/internal/risk"
)

//go:embed templates/config.tmpl
var configTemplateText string

// Config represents the project configuration stored in .outlook/config.toml.
type Config struct {
	Project    ProjectConfig    `toml:"project"`
	Store      StoreConfig      `toml:"store"`
	Git        GitConfig        `toml:"git"`
	Estimation EstimationConfig `toml:"estimation"`
	Complexity ComplexityConfig `toml:"complexity"`
	Risk       RiskConfig       `toml:"risk"`
	Forecast   ForecastConfig   `toml:"forecast"`
	Log        LogConfig        `toml:"log"`
}

// ProjectConfig contains project metadata.
type ProjectConfig struct {
	Name      string    `toml:"name"`
	CreatedAt time.Time `toml:"created_at"`
}

// StoreConfig locates the item database.
type StoreConfig struct {
	// Path is the database file, relative to the .outlook directory.
	// Defaults to "outlook.db".
	Path string `toml:"path"`
}

// GetPath returns the configured database file name.
func (s *StoreConfig) GetPath() string {
	if s.Path == "" {
		return DefaultDB
	}
	return s.Path
}

// GitConfig configures the git activity analyzer.
type GitConfig struct {
	// RepoPath is the repository analyzed for team activity, relative to the
	// project root. Defaults to the project root itself.
	RepoPath string `toml:"repo_path"`

	// CacheTTLMinutes is how long activity answers are reused. Defaults to 10.
	CacheTTLMinutes *int `toml:"cache_ttl_minutes"`

	// LargeChangeLines is the line count above which a commit counts as a
	// large change. Defaults to 500.
	LargeChangeLines *int `toml:"large_change_lines"`
}

// GetRepoPath returns the configured repository path.
func (g *GitConfig) GetRepoPath() string {
	if g.RepoPath == "" {
		return "."
	}
	return g.RepoPath
}

// GetCacheTTL returns the activity cache TTL.
func (g *GitConfig) GetCacheTTL() time.Duration {
	if g.CacheTTLMinutes == nil || *g.CacheTTLMinutes <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(*g.CacheTTLMinutes) * time.Minute
}

// GetLargeChangeLines returns the large change threshold.
func (g *GitConfig) GetLargeChangeLines() int {
	return positive(g.LargeChangeLines, 500)
}

// EstimationConfig tunes the issue estimator.
type EstimationConfig struct {
	BaseHours     *float64 `toml:"base_hours"`
	HoursPerPoint *float64 `toml:"hours_per_point"`
	MinSimilarity *float64 `toml:"min_similarity"`
	MaxHistory    *int     `toml:"max_history"`

	// HoursPerDay is the productive hours one person delivers per day.
	HoursPerDay *float64 `toml:"hours_per_day"`

	ConfidenceBands BandsConfig `toml:"confidence_bands"`
}

// BandsConfig holds the lower bounds of the confidence bands.
type BandsConfig struct {
	VeryHigh *float64 `toml:"very_high"`
	High     *float64 `toml:"high"`
	Medium   *float64 `toml:"medium"`
}

// Bands returns the configured bands over the defaults.
func (b *BandsConfig) Bands() estimate.Bands {
	d := estimate.DefaultBands()
	return estimate.Bands{
		VeryHigh: positiveFloat(b.VeryHigh, d.VeryHigh),
		High:     positiveFloat(b.High, d.High),
		Medium:   positiveFloat(b.Medium, d.Medium),
	}
}

// GetHoursPerDay returns the configured hours per day. Defaults to 6.
func (e *EstimationConfig) GetHoursPerDay() float64 {
	return positiveFloat(e.HoursPerDay, forecast.DefaultSettings().HoursPerDay)
}

// Settings returns the estimator settings.
func (e *EstimationConfig) Settings() estimate.Settings {
	d := estimate.DefaultSettings()
	return estimate.Settings{
		BaseHours:     positiveFloat(e.BaseHours, d.BaseHours),
		HoursPerPoint: nonNegativeFloat(e.HoursPerPoint, d.HoursPerPoint),
		MinSimilarity: nonNegativeFloat(e.MinSimilarity, d.MinSimilarity),
		MaxHistory:    positive(e.MaxHistory, d.MaxHistory),
		MinHours:      d.MinHours,
		Bands:         e.ConfidenceBands.Bands(),
	}
}

// ComplexityConfig overrides complexity weights.
type ComplexityConfig struct {
	IndicatorPoints  *float64 `toml:"indicator_points"`
	IndicatorCap     *float64 `toml:"indicator_cap"`
	DependencyPoints *float64 `toml:"dependency_points"`
	DependencyCap    *float64 `toml:"dependency_cap"`
	TextWeight       *float64 `toml:"text_weight"`
	PriorityWeight   *float64 `toml:"priority_weight"`
	AssigneeWeight   *float64 `toml:"assignee_weight"`
}

// Weights returns the configured weights over the defaults.
func (c *ComplexityConfig) Weights() complexity.Weights {
	w := complexity.DefaultWeights()
	w.IndicatorPoints = nonNegativeFloat(c.IndicatorPoints, w.IndicatorPoints)
	w.IndicatorCap = nonNegativeFloat(c.IndicatorCap, w.IndicatorCap)
	w.DependencyPoints = nonNegativeFloat(c.DependencyPoints, w.DependencyPoints)
	w.DependencyCap = nonNegativeFloat(c.DependencyCap, w.DependencyCap)
	w.TextWeight = nonNegativeFloat(c.TextWeight, w.TextWeight)
	w.PriorityWeight = nonNegativeFloat(c.PriorityWeight, w.PriorityWeight)
	w.AssigneeWeight = nonNegativeFloat(c.AssigneeWeight, w.AssigneeWeight)
	return w
}

// RiskConfig tunes the risk predictor.
type RiskConfig struct {
	// WindowDays is the git history window for team and quality risks.
	// Defaults to 30.
	WindowDays *int `toml:"window_days"`

	ComplexityMedium   *float64 `toml:"complexity_medium"`
	ComplexityHigh     *float64 `toml:"complexity_high"`
	ComplexityCritical *float64 `toml:"complexity_critical"`
	LowCollaboration   *float64 `toml:"low_collaboration"`
	BugFixRatio        *float64 `toml:"bug_fix_ratio"`
	LargeChangeRatio   *float64 `toml:"large_change_ratio"`
	DaysPerDependency  *int     `toml:"days_per_dependency"`
}

// GetWindowDays returns the risk window in days.
func (r *RiskConfig) GetWindowDays() int {
	return positive(r.WindowDays, 30)
}

// Thresholds returns the configured thresholds over the defaults.
func (r *RiskConfig) Thresholds() risk.Thresholds {
	d := risk.DefaultThresholds()
	return risk.Thresholds{
		ComplexityMedium:   positiveFloat(r.ComplexityMedium, d.ComplexityMedium),
		ComplexityHigh:     positiveFloat(r.ComplexityHigh, d.ComplexityHigh),
		ComplexityCritical: positiveFloat(r.ComplexityCritical, d.ComplexityCritical),
		LowCollaboration:   nonNegativeFloat(r.LowCollaboration, d.LowCollaboration),
		BugFixRatio:        nonNegativeFloat(r.BugFixRatio, d.BugFixRatio),
		LargeChangeRatio:   nonNegativeFloat(r.LargeChangeRatio, d.LargeChangeRatio),
		DaysPerDependency:  positive(r.DaysPerDependency, d.DaysPerDependency),
	}
}

// ForecastConfig tunes the forecaster and report.
type ForecastConfig struct {
	// CriticalPathSize caps the critical path. Defaults to 10.
	CriticalPathSize *int `toml:"critical_path_size"`
	// TeamSize overrides the team size derived from assignees.
	TeamSize *int `toml:"team_size"`
	// TopRisks caps the risks listed in reports. Defaults to 5.
	TopRisks *int `toml:"top_risks"`
}

// LogConfig configures the debug log.
type LogConfig struct {
	// Level is one of debug, info, warn, error. Defaults to info.
	Level string `toml:"level"`
}

// GetLevel returns the configured log level.
func (l *LogConfig) GetLevel() slog.Level {
	return logging.ParseLevel(l.Level)
}

// ForecastSettings returns the forecaster settings.
func (c *Config) ForecastSettings() forecast.Settings {
	s := forecast.DefaultSettings()
	s.HoursPerDay = c.Estimation.GetHoursPerDay()
	s.CriticalPathSize = positive(c.Forecast.CriticalPathSize, s.CriticalPathSize)
	s.TeamSize = positive(c.Forecast.TeamSize, 0)
	s.RiskWindowDays = c.Risk.GetWindowDays()
	s.Bands = c.Estimation.ConfidenceBands.Bands()
	return s
}

// ReportSettings returns the report settings.
func (c *Config) ReportSettings() report.Settings {
	return report.Settings{
		TopRisks:       positive(c.Forecast.TopRisks, report.DefaultSettings().TopRisks),
		RiskWindowDays: c.Risk.GetWindowDays(),
	}
}

func positive(v *int, def int) int {
	if v == nil || *v <= 0 {
		return def
	}
	return *v
}

func positiveFloat(v *float64, def float64) float64 {
	if v == nil || *v <= 0 {
		return def
	}
	return *v
}

func nonNegativeFloat(v *float64, def float64) float64 {
	if v == nil || *v < 0 {
		return def
	}
	return *v
}

// LoadConfig reads and parses a config.toml file.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// SaveDocumentedConfig writes the config with inline comments describing
// every option.
func (c *Config) SaveDocumentedConfig(path string) error {
	return os.WriteFile(path, []byte(c.GenerateDocumentedConfig()), 0600)
}

type configTemplateData struct {
	ProjectName string
	CreatedAt   string
	StorePath   string
	RepoPath    string
}

// tomlString quotes s as a TOML basic string.
func tomlString(s string) string {
	escaped := strings.ReplaceAll(s, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	escaped = strings.ReplaceAll(escaped, "\r", `\r`)
	escaped = strings.ReplaceAll(escaped, "\t", `\t`)
	return `"` + escaped + `"`
}

var configTemplate = template.Must(template.New("config").Funcs(template.FuncMap{
	"tomlString": tomlString,
}).Parse(configTemplateText))

// GenerateDocumentedConfig renders config.toml with the project's values and
// commented-out defaults for everything else.
func (c *Config) GenerateDocumentedConfig() string {
	data := configTemplateData{
		ProjectName: c.Project.Name,
		CreatedAt:   c.Project.CreatedAt.Format(time.RFC3339),
		StorePath:   c.Store.GetPath(),
		RepoPath:    c.Git.GetRepoPath(),
	}

	var buf bytes.Buffer
	if err := configTemplate.Execute(&buf, data); err != nil {
		return fmt.Sprintf("[project]\nname = %s\ncreated_at = %s\n[store]\npath = %s\n[git]\nrepo_path = %s\n",
			tomlString(c.Project.Name), data.CreatedAt, tomlString(data.StorePath), tomlString(data.RepoPath))
	}
	return buf.String()
}
