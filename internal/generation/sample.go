package generation

import "context"

// samplePayload is the fixed response used while no model is wired in.
const samplePayload = `
[
  {"name": "アサヒスーパードライ", "x": 15, "y": 15},
  {"name": "サッポロ エビス", "x": 30, "y": 25},
  {"name": "サントリー 角瓶", "x": 25, "y": 40},
  {"name": "山崎12年", "x": 85, "y": 60},
  {"name": "チョーヤ 梅酒", "x": 40, "y": 80},
  {"name": "カルロロッシ(赤)", "x": 10, "y": 45}
]
`

// Canned returns the same text for every prompt.
type Canned struct {
	Text string
}

// Sample returns a Canned generator holding the built-in sample response.
func Sample() *Canned {
	return &Canned{Text: samplePayload}
}

// Generate returns c.Text unless ctx is already done.
func (c *Canned) Generate(ctx context.Context, _ string) (string, error) {
	if err := checkContext(ctx); err != nil {
		return "", err
	}
	return c.Text, nil
}
