// Package prompt builds the instruction text sent to the generator.
package prompt

import (
	"fmt"
	"strings"

	"github.com/ankek/terraform-provider-plottoru/internal/matrix"
)

// Item count requested from the generator.
const (
	MinItems = 10
	MaxItems = 15
)

const outputContract = `[
  {
    "name": "商品名1",
    "x": 80,
    "y": 70
  },
  {
    "name": "商品名2",
    "x": 20,
    "y": 30
  }
]`

// Build returns the instruction for theme and the two axes. The result
// depends only on its arguments.
func Build(theme string, x, y matrix.AxisSpec) string {
	var b strings.Builder

	fmt.Fprintf(&b, "テーマ「%s」について、以下の2軸で商品を%d個から%d個選んで、マトリクスを作成してください。\n\n", theme, MinItems, MaxItems)
	fmt.Fprintf(&b, "■X軸：%s\n", axisLine(x))
	fmt.Fprintf(&b, "■Y軸：%s\n\n", axisLine(y))

	b.WriteString("# 指示\n")
	fmt.Fprintf(&b, "- X軸とY軸の値を、それぞれ%dから%dの範囲の数値で評価してください。\n", int(matrix.MinScore), int(matrix.MaxScore))
	fmt.Fprintf(&b, "- X軸は左端が%d、右端が%dです。\n", int(matrix.MinScore), int(matrix.MaxScore))
	fmt.Fprintf(&b, "- Y軸は下端が%d、上端が%dです。\n", int(matrix.MinScore), int(matrix.MaxScore))
	b.WriteString("- 日本で実際に市販されている具体的な商品名を挙げてください。\n")
	b.WriteString("- 各要素は \"name\"（文字列）、\"x\"（数値）、\"y\"（数値）の3項目を必ず持つこと。\n")
	b.WriteString("- 必ず以下のJSON形式の配列だけを出力してください。説明文や```json ```は不要です。\n\n")
	b.WriteString(outputContract)
	b.WriteString("\n")

	return b.String()
}

// ForRequest builds the instruction for a normalized request.
func ForRequest(req matrix.Request) string {
	return Build(req.Theme, req.XAxis, req.YAxis)
}

// axisLine renders "name" or "name（description）".
func axisLine(a matrix.AxisSpec) string {
	if a.Description == "" {
		return a.Name
	}
	return fmt.Sprintf("%s（%s）", a.Name, a.Description)
}
