package provider

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/terraform-plugin-framework-validators/int64validator"
	"github.com/hashicorp/terraform-plugin-framework-validators/stringvalidator"
	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/resource"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/planmodifier"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/stringplanmodifier"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-log/tflog"

	perrors "github.com/ankek/terraform-provider-plottoru/internal/errors"
	"github.com/ankek/terraform-provider-plottoru/internal/renderer"
)

// Ensure provider defined types fully satisfy framework interfaces.
var _ resource.Resource = &MatrixResource{}
var _ resource.ResourceWithConfigure = &MatrixResource{}

func NewMatrixResource() resource.Resource {
	return &MatrixResource{}
}

// MatrixResource defines the resource implementation.
type MatrixResource struct {
	data *providerData
}

// MatrixResourceModel describes the resource data model.
type MatrixResourceModel struct {
	ID           types.String `tfsdk:"id"`
	PresetPath   types.String `tfsdk:"preset_path"`
	Theme        types.String `tfsdk:"theme"`
	XAxis        types.String `tfsdk:"x_axis"`
	XDescription types.String `tfsdk:"x_description"`
	YAxis        types.String `tfsdk:"y_axis"`
	YDescription types.String `tfsdk:"y_description"`
	Policy       types.String `tfsdk:"policy"`
	Format       types.String `tfsdk:"format"`
	Title        types.String `tfsdk:"title"`
	FontPath     types.String `tfsdk:"font_path"`
	Width        types.Int64  `tfsdk:"width"`
	Height       types.Int64  `tfsdk:"height"`
	OutputPath   types.String `tfsdk:"output_path"`
	ItemCount    types.Int64  `tfsdk:"item_count"`
	DroppedCount types.Int64  `tfsdk:"dropped_count"`
	ClampedCount types.Int64  `tfsdk:"clamped_count"`
	ItemsJSON    types.String `tfsdk:"items_json"`
}

func (m *MatrixResourceModel) args() matrixArgs {
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

func (r *MatrixResource) Metadata(ctx context.Context, req resource.MetadataRequest, resp *resource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_matrix"
}

func (r *MatrixResource) Schema(ctx context.Context, req resource.SchemaRequest, resp *resource.SchemaResponse) {
	resp.Schema = schema.Schema{
		MarkdownDescription: "Generates a two-axis quadrant chart for a theme and writes it to a PNG or SVG file.",

		Attributes: map[string]schema.Attribute{
			"id": schema.StringAttribute{
				Computed:            true,
				MarkdownDescription: "Resource identifier",
				PlanModifiers: []planmodifier.String{
					stringplanmodifier.UseStateForUnknown(),
				},
			},
			"preset_path": schema.StringAttribute{
				MarkdownDescription: "Path to an HCL preset file. Attributes set here override the preset.",
				Optional:            true,
				Validators:          []validator.String{stringvalidator.LengthAtLeast(1)},
			},
			"theme": schema.StringAttribute{
				MarkdownDescription: "Theme of the chart, e.g. 'お酒'. Required unless a preset provides it.",
				Optional:            true,
			},
			"x_axis": schema.StringAttribute{
				MarkdownDescription: "Name of the horizontal axis. Default is '価格帯'.",
				Optional:            true,
			},
			"x_description": schema.StringAttribute{
				MarkdownDescription: "Optional description of the horizontal axis, only used in the prompt.",
				Optional:            true,
			},
			"y_axis": schema.StringAttribute{
				MarkdownDescription: "Name of the vertical axis. Default is '味の傾向'.",
				Optional:            true,
			},
			"y_description": schema.StringAttribute{
				MarkdownDescription: "Optional description of the vertical axis, only used in the prompt.",
				Optional:            true,
			},
			"policy": schema.StringAttribute{
				MarkdownDescription: "How invalid items are handled: 'lenient' drops them (default), 'strict' fails.",
				Optional:            true,
				Validators:          []validator.String{stringvalidator.OneOf("strict", "lenient")},
			},
			"format": schema.StringAttribute{
				MarkdownDescription: "Output format: 'png' or 'svg'. Default is 'png'.",
				Optional:            true,
				Validators:          []validator.String{stringvalidator.OneOf(renderer.FormatPNG, renderer.FormatSVG)},
			},
			"title": schema.StringAttribute{
				MarkdownDescription: "Chart title. Defaults to 「theme」の2軸マトリクス.",
				Optional:            true,
			},
			"font_path": schema.StringAttribute{
				MarkdownDescription: "TTF, OTF or TTC font used for all text. A Japanese system font is used when unset.",
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
				MarkdownDescription: "Path where the chart will be saved.",
				Required:            true,
				Validators:          []validator.String{stringvalidator.LengthAtLeast(1)},
			},
			"item_count": schema.Int64Attribute{
				MarkdownDescription: "Number of items plotted.",
				Computed:            true,
			},
			"dropped_count": schema.Int64Attribute{
				MarkdownDescription: "Number of invalid items dropped under the lenient policy.",
				Computed:            true,
			},
			"clamped_count": schema.Int64Attribute{
				MarkdownDescription: "Number of scores pulled back into 0..100.",
				Computed:            true,
			},
			"items_json": schema.StringAttribute{
				MarkdownDescription: "Plotted items as a JSON array of {name, x, y}.",
				Computed:            true,
			},
		},
	}
}

func (r *MatrixResource) Configure(ctx context.Context, req resource.ConfigureRequest, resp *resource.ConfigureResponse) {
	if req.ProviderData == nil {
		return
	}
	data, ok := req.ProviderData.(*providerData)
	if !ok {
		resp.Diagnostics.AddError("Unexpected Resource Configure Type",
			fmt.Sprintf("Expected *providerData, got: %T. Please report this issue to the provider developers.", req.ProviderData))
		return
	}
	r.data = data
}

func (r *MatrixResource) Create(ctx context.Context, req resource.CreateRequest, resp *resource.CreateResponse) {
	var data MatrixResourceModel

	resp.Diagnostics.Append(req.Plan.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	resp.Diagnostics.Append(r.generate(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}

func (r *MatrixResource) Read(ctx context.Context, req resource.ReadRequest, resp *resource.ReadResponse) {
	var data MatrixResourceModel

	resp.Diagnostics.Append(req.State.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	// Check if output file still exists
	if _, err := os.Stat(data.OutputPath.ValueString()); os.IsNotExist(err) {
		tflog.Info(ctx, "chart file removed outside terraform", map[string]interface{}{"path": data.OutputPath.ValueString()})
		resp.State.RemoveResource(ctx)
		return
	}

	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}

func (r *MatrixResource) Update(ctx context.Context, req resource.UpdateRequest, resp *resource.UpdateResponse) {
	var data MatrixResourceModel

	resp.Diagnostics.Append(req.Plan.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	// Re-create the chart with updated configuration
	resp.Diagnostics.Append(r.generate(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}

func (r *MatrixResource) Delete(ctx context.Context, req resource.DeleteRequest, resp *resource.DeleteResponse) {
	var data MatrixResourceModel

	resp.Diagnostics.Append(req.State.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	if err := os.Remove(data.OutputPath.ValueString()); err != nil && !os.IsNotExist(err) {
		resp.Diagnostics.AddError("Failed to remove chart", err.Error())
	}
}

// generate runs the chart pipeline for data and fills its computed attributes.
func (r *MatrixResource) generate(ctx context.Context, data *MatrixResourceModel) diag.Diagnostics {
	var diags diag.Diagnostics

	cfg, gen, err := LoadMatrixConfig(ctx, r.data, data.args())
	if err != nil {
		diags.AddError("Invalid chart configuration", perrors.UserMessage(err))
		return diags
	}

	result, err := gen.Generate(ctx, cfg)
	if err != nil {
		diags.AddError(summaryFor(err), err.Error())
		return diags
	}

	data.ID = types.StringValue(fmt.Sprintf("%s_%s", result.OutputPath, cfg.Format))
	data.ItemCount = types.Int64Value(result.ItemCount)
	data.DroppedCount = types.Int64Value(result.Dropped)
	data.ClampedCount = types.Int64Value(result.Clamped)
	data.ItemsJSON = types.StringValue(result.ItemsJSON)
	return diags
}

// summaryFor returns the diagnostic summary for a chart failure.
func summaryFor(err error) string {
	switch perrors.GetCode(err) {
	case perrors.ErrCodeGenerationUnavailable:
		return "Generation service unavailable"
	case perrors.ErrCodeNoJSONFound, perrors.ErrCodeInvalidJSON:
		return "Generator returned no usable JSON"
	case perrors.ErrCodeSchemaViolation:
		return "Generator output violates the item schema"
	default:
		return "Failed to generate chart"
	}
}
