package provider

import (
	"context"
	"os"
	"time"

	"github.com/hashicorp/terraform-plugin-framework-validators/stringvalidator"
	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/path"
	"github.com/hashicorp/terraform-plugin-framework/provider"
	"github.com/hashicorp/terraform-plugin-framework/provider/schema"
	"github.com/hashicorp/terraform-plugin-framework/resource"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-log/tflog"

	"github.com/ankek/terraform-provider-plottoru/internal/generation"
)

// Ensure PlottoruProvider satisfies various provider interfaces.
var _ provider.Provider = &PlottoruProvider{}

// PlottoruProvider defines the provider implementation.
type PlottoruProvider struct {
	// version is set to the provider version on release, "dev" when the
	// provider is built and ran locally, and "test" when running acceptance
	// testing.
	version string
}

// PlottoruProviderModel describes the provider data model.
type PlottoruProviderModel struct {
	Generator types.String `tfsdk:"generator"`
	Model     types.String `tfsdk:"model"`
	Endpoint  types.String `tfsdk:"endpoint"`
	APIKey    types.String `tfsdk:"api_key"`
	Timeout   types.String `tfsdk:"timeout"`
}

// apiKeyEnv lists the environment variables consulted, in order, when
// api_key is not set.
var apiKeyEnv = map[string][]string{
	generation.ProviderGemini: {"PLOTTORU_API_KEY", "GEMINI_API_KEY"},
	generation.ProviderOpenAI: {"PLOTTORU_API_KEY", "OPENAI_API_KEY"},
}

func (p *PlottoruProvider) Metadata(ctx context.Context, req provider.MetadataRequest, resp *provider.MetadataResponse) {
	resp.TypeName = "plottoru"
	resp.Version = p.version
}

func (p *PlottoruProvider) Schema(ctx context.Context, req provider.SchemaRequest, resp *provider.SchemaResponse) {
	resp.Schema = schema.Schema{
		Description: "The Plottoru provider asks a generative model to score items on two axes and draws them as a quadrant chart.",
		Attributes: map[string]schema.Attribute{
			"generator": schema.StringAttribute{
				Description: "Text generator: 'sample' (built-in data, default), 'gemini' or 'openai'.",
				Optional:    true,
				Validators: []validator.String{
					stringvalidator.OneOf(generation.ProviderSample, generation.ProviderGemini, generation.ProviderOpenAI),
				},
			},
			"model": schema.StringAttribute{
				Description: "Model identifier. Defaults to the generator's default model.",
				Optional:    true,
			},
			"endpoint": schema.StringAttribute{
				Description: "Base URL of an OpenAI-compatible API, e.g. https://api.openai.com/v1.",
				Optional:    true,
				Validators: []validator.String{
					stringvalidator.LengthAtLeast(1),
					stringvalidator.AlsoRequires(path.MatchRoot("generator")),
				},
			},
			"api_key": schema.StringAttribute{
				Description: "API key for the generator. Can also be set via PLOTTORU_API_KEY, GEMINI_API_KEY or OPENAI_API_KEY environment variables.",
				Optional:    true,
				Sensitive:   true,
			},
			"timeout": schema.StringAttribute{
				Description: "Per-request generation timeout as a Go duration, e.g. '30s'. No timeout when unset.",
				Optional:    true,
			},
		},
	}
}

func (p *PlottoruProvider) Configure(ctx context.Context, req provider.ConfigureRequest, resp *provider.ConfigureResponse) {
	var data PlottoruProviderModel

	resp.Diagnostics.Append(req.Config.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	cfg := generation.Config{
		Provider: data.Generator.ValueString(),
		Model:    data.Model.ValueString(),
		Endpoint: data.Endpoint.ValueString(),
		APIKey:   data.APIKey.ValueString(),
	}
	if cfg.APIKey == "" {
		cfg.APIKey = lookupAPIKey(cfg.Provider)
	}
	if s := data.Timeout.ValueString(); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil || d < 0 {
			resp.Diagnostics.AddAttributeError(path.Root("timeout"), "Invalid timeout", "timeout must be a non-negative Go duration such as '30s'")
			return
		}
		cfg.Timeout = d
	}

	tflog.Debug(ctx, "configured plottoru provider", map[string]interface{}{
		"generator": cfg.Provider,
		"model":     cfg.Model,
		"timeout":   cfg.Timeout.String(),
	})

	// Make generator settings available to resources and data sources
	settings := &providerData{Generator: cfg}
	resp.DataSourceData = settings
	resp.ResourceData = settings
}

func (p *PlottoruProvider) Resources(ctx context.Context) []func() resource.Resource {
	return []func() resource.Resource{
		NewMatrixResource,
	}
}

func (p *PlottoruProvider) DataSources(ctx context.Context) []func() datasource.DataSource {
	return []func() datasource.DataSource{
		NewMatrixDataSource,
	}
}

func New(version string) func() provider.Provider {
	return func() provider.Provider {
		return &PlottoruProvider{
			version: version,
		}
	}
}

// providerData is handed from Configure to every resource and data source.
type providerData struct {
	Generator generation.Config
}

func lookupAPIKey(generator string) string {
	for _, name := range apiKeyEnv[generator] {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}
