package provider

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"github.com/hashicorp/terraform-plugin-framework-validators/int64validator"
	"github.com/hashicorp/terraform-plugin-framework-validators/stringvalidator"
	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/datasource/schema"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-framework/types"

	perrors "github.com/ankek/terraform-provider-plottoru/internal/errors"
	"github.com/ankek/terraform-provider-plottoru/internal/renderer"
)

// Ensure provider defined types fully satisfy framework interfaces.
var _ datasource.DataSource = &MatrixDataSource{}
var _ datasource.DataSourceWithConfigure = &MatrixDataSource{}

// MatrixDataSource defines the data source implementation.
type MatrixDataSource struct {
	data *providerData
}

func NewMatrixDataSource() datasource.DataSource {
	return &MatrixDataSource{}
}

// MatrixDataSourceModel describes the data source data model.
type MatrixDataSourceModel struct {
	ID            types.String `tfsdk:"id"`
	PresetPath    types.String `tfsdk:"preset_path"`
	Theme         types.String `tfsdk:"theme"`
	XAxis         types.String `tfsdk:"x_axis"`
	XDescription  types.String `tfsdk:"x_description"`
	YAxis         types.String `tfsdk:"y_axis"`
	YDescription  types.String `tfsdk:"y_description"`
	Policy        types.String `tfsdk:"policy"`
	Format        types.String `tfsdk:"format"`
	Title         types.String `tfsdk:"title"`
	FontPath      types.String `tfsdk:"font_path"`
	Width         types.Int64  `tfsdk:"width"`
	Height        types.Int64  `tfsdk:"height"`
	OutputPath    types.String `tfsdk:"output_path"`
	ItemCount     types.Int64  `tfsdk:"item_count"`
	DroppedCount  types.Int64  `tfsdk:"dropped_count"`
	ClampedCount  types.Int64  `tfsdk:"clamped_count"`
	ItemsJSON     types.String `tfsdk:"items_json"`
	ContentBase64 types.String `tfsdk:"content_base64"`
}

func (m *MatrixDataSourceModel) args() matrixArgs {
	return matrixArgs{
		PresetPath:   m.PresetPath,
		Theme:        m.Theme,
		XAxis:        m.XAxis,
		XDescription: m.XDescription,
		YAxis:        m.YAxis,
		YDescription: m.YDescription,
		Policy:       m.Policy,
		Format:       m.Format,
		Title:        m.Title,
		FontPath:     m.FontPath,
		Width:        m.Width,
		Height:       m.Height,
		OutputPath:   m.OutputPath,
	}
}

func (d *MatrixDataSource) Metadata(ctx context.Context, req datasource.MetadataRequest, resp *datasource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_matrix"
}

func (d *MatrixDataSource) Schema(ctx context.Context, req datasource.SchemaRequest, resp *datasource.SchemaResponse) {
	resp.Schema = schema.Schema{
		MarkdownDescription: "Generates a two-axis quadrant chart for a theme and returns it inline.",

		Attributes: map[string]schema.Attribute{
			"id": schema.StringAttribute{
				Computed:            true,
				MarkdownDescription: "Data source identifier",
			},
			"preset_path": schema.StringAttribute{
				MarkdownDescription: "Path to an HCL preset file. Attributes set here override the preset.",
				Optional:            true,
				Validators:          []validator.String{stringvalidator.LengthAtLeast(1)},
			},
			"theme": schema.StringAttribute{
				MarkdownDescription: "Theme of the chart. Required unless a preset provides it.",
				Optional:            true,
			},
			"x_axis": schema.StringAttribute{
				MarkdownDescription: "Name of the horizontal axis.",
				Optional:            true,
			},
			"x_description": schema.StringAttribute{
				MarkdownDescription: "Optional description of the horizontal axis.",
				Optional:            true,
			},
			"y_axis": schema.StringAttribute{
				MarkdownDescription: "Name of the vertical axis.",
				Optional:            true,
			},
			"y_description": schema.StringAttribute{
				MarkdownDescription: "Optional description of the vertical axis.",
				Optional:            true,
			},
			"policy": schema.StringAttribute{
				MarkdownDescription: "'lenient' (default) or 'strict'.",
				Optional:            true,
				Validators:          []validator.String{stringvalidator.OneOf("strict", "lenient")},
			},
			"format": schema.StringAttribute{
				MarkdownDescription: "Output format: 'png' or 'svg'. Default is 'png'.",
				Optional:            true,
				Validators:          []validator.String{stringvalidator.OneOf(renderer.FormatPNG, renderer.FormatSVG)},
			},
			"title": schema.StringAttribute{
				MarkdownDescription: "Chart title.",
				Optional:            true,
			},
			"font_path": schema.StringAttribute{
				MarkdownDescription: "Font file used for all text.",
				Optional:            true,
			},
			"width": schema.Int64Attribute{
				MarkdownDescription: "Image width in pixels. Default is 1200.",
				Optional:            true,
				Validators:          []validator.Int64{int64validator.Between(200, 8000)},
			},
			"height": schema.Int64Attribute{
				MarkdownDescription: "Image height in pixels. Default is 1200.",
				Optional:            true,
				Validators:          []validator.Int64{int64validator.Between(200, 8000)},
			},
			"output_path": schema.StringAttribute{
				MarkdownDescription: "Optional path where the chart is also saved.",
				Optional:            true,
				Validators:          []validator.String{stringvalidator.LengthAtLeast(1)},
			},
			"item_count": schema.Int64Attribute{
				MarkdownDescription: "Number of items plotted.",
				Computed:            true,
			},
			"dropped_count": schema.Int64Attribute{
				MarkdownDescription: "Number of invalid items dropped.",
				Computed:            true,
			},
			"clamped_count": schema.Int64Attribute{
				MarkdownDescription: "Number of scores pulled back into 0..100.",
				Computed:            true,
			},
			"items_json": schema.StringAttribute{
				MarkdownDescription: "Plotted items as a JSON array.",
				Computed:            true,
			},
			"content_base64": schema.StringAttribute{
				MarkdownDescription: "The encoded chart, base64.",
				Computed:            true,
			},
		},
	}
}

func (d *MatrixDataSource) Configure(ctx context.Context, req datasource.ConfigureRequest, resp *datasource.ConfigureResponse) {
	if req.ProviderData == nil {
		return
	}
	data, ok := req.ProviderData.(*providerData)
	if !ok {
		resp.Diagnostics.AddError("Unexpected Data Source Configure Type",
			fmt.Sprintf("Expected *providerData, got: %T. Please report this issue to the provider developers.", req.ProviderData))
		return
	}
	d.data = data
}

func (d *MatrixDataSource) Read(ctx context.Context, req datasource.ReadRequest, resp *datasource.ReadResponse) {
	var data MatrixDataSourceModel

	resp.Diagnostics.Append(req.Config.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	cfg, gen, err := LoadMatrixConfig(ctx, d.data, data.args())
	if err != nil {
		resp.Diagnostics.AddError("Invalid chart configuration", perrors.UserMessage(err))
		return
	}

	result, err := gen.Generate(ctx, cfg)
	if err != nil {
		resp.Diagnostics.AddError(summaryFor(err), err.Error())
		return
	}

	data.ItemCount = types.Int64Value(result.ItemCount)
	data.DroppedCount = types.Int64Value(result.Dropped)
	data.ClampedCount = types.Int64Value(result.Clamped)
	data.ItemsJSON = types.StringValue(result.ItemsJSON)
	data.ContentBase64 = types.StringValue(base64.StdEncoding.EncodeToString(result.Data))

	// Generate ID based on content
	hash := sha256.Sum256(result.Data)
	data.ID = types.StringValue(fmt.Sprintf("%x", hash[:8]))

	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}
