package synth

import (
	"context"
	"fmt"

	"testweaver/internal/classify"
	"testweaver/internal/engine"
	"testweaver/internal/ticket"
	"testweaver/internal/tools"
	"testweaver/internal/trace"
)

// RegisterTool binds dry-run script generation to the registry: the
// instructions are parsed and classified but never executed, so the
// generated spec uses text selectors instead of inferred ones.
func RegisterTool(registry *tools.Registry, generator *Generator) error {
	descriptor := tools.Descriptor{
		Name:        "generate_script",
		Description: "Generate a Playwright spec from instruction text without executing it",
		Params: []tools.ParamSpec{
			{Name: "name", Type: tools.TypeString, Required: true, Description: "Test name, used for the spec file"},
			{Name: "instructions", Type: tools.TypeString, Required: true, Description: "Instruction lines, one per line"},
		},
	}

	handler := func(ctx context.Context, args map[string]interface{}) (*tools.Result, error) {
		name, _ := args["name"].(string)
		instructions, _ := args["instructions"].(string)

		parsed := ticket.Parse(instructions)
		if len(parsed) == 0 {
			return tools.Failure(tools.FailureExecution, "no instructions found in input"), nil
		}

		tr := DryTrace(name, classify.ClassifyAll(parsed))
		output, err := generator.Write(tr, RenderOptions{TestName: name})
		if err != nil {
			return nil, err
		}
		return tools.Text(output.SpecPath), nil
	}

	return registry.Register(descriptor, handler)
}

// DryTrace builds a synthetic all-success trace from intents without
// touching a browser. Element targets become Playwright text selectors.
func DryTrace(name string, intents []classify.Intent) *trace.Trace {
	tr := trace.New("")
	prefix := slugify(name)
	if prefix == "" {
		prefix = "dry"
	}

	step := 0
	for _, intent := range intents {
		step++
		switch intent.Kind {
		case classify.KindNavigate:
			tr.Append(trace.Record{
				Intent: intent,
				Tool:   engine.ToolNavigate,
				Args:   map[string]interface{}{"url": intent.URL},
				Status: trace.StatusSuccess,
			})
		case classify.KindClick:
			tr.Append(trace.Record{
				Intent: intent,
				Tool:   engine.ToolClick,
				Args:   map[string]interface{}{"selector": textSelector(intent.Target)},
				Status: trace.StatusSuccess,
			})
		case classify.KindFill:
			tr.Append(trace.Record{
				Intent: intent,
				Tool:   engine.ToolFill,
				Args: map[string]interface{}{
					"selector": textSelector(intent.Target),
					"value":    intent.Value,
				},
				Status: trace.StatusSuccess,
			})
		case classify.KindScreenshot:
			tr.Append(trace.Record{
				Intent: intent,
				Tool:   engine.ToolScreenshot,
				Args:   map[string]interface{}{"name": fmt.Sprintf("%s_step_%02d", prefix, step)},
				Status: trace.StatusSuccess,
			})
		case classify.KindVerify:
			tr.Append(trace.Record{
				Intent: intent,
				Tool:   engine.ToolScreenshot,
				Args: map[string]interface{}{
					"name":     fmt.Sprintf("%s_step_%02d_verify", prefix, step),
					"selector": textSelector(intent.Target),
				},
				Status: trace.StatusSuccess,
			})
		default:
			tr.Append(trace.Record{
				Intent: intent,
				Status: trace.StatusSkipped,
				Detail: "no classification rule matched",
			})
		}
	}
	return tr
}

func textSelector(target string) string {
	return "text=" + target
}
