package orchestrator

import (
	"context"
	"fmt"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/travel-boot/llm"
	"github.com/SaiNageswarS/travel-boot/tools"
	"go.uber.org/zap"
)

// RunTool executes one tool call: argument parsing, parameter mapping, gating
// and the agent call. Every outcome, including refusals, is a JSON object
// result; it never fails the request.
func (o *Orchestrator) RunTool(ctx context.Context, reporter ProgressReporter, state *GatingState, call llm.ToolCall) ToolResult {
	agent := o.config.Agents.DisplayName(call.Name)
	result := ToolResult{Agent: agent, ToolCall: call}

	if !tools.IsKnown(call.Name) {
		result.Result = map[string]any{"error": "Unknown tool: " + call.Name}
		reporter.Send(NewProgressUpdate(StageToolExecutionFailed, call.Name, "Unknown tool"))
		return result
	}

	args, err := tools.ParseArguments(call.Arguments)
	if err != nil {
		logger.Error("Invalid tool call arguments", zap.String("tool", call.Name), zap.Error(err))
		result.Result = map[string]any{"agent": agent, "error": "Invalid tool call arguments: " + err.Error()}
		reporter.Send(NewProgressUpdate(StageToolExecutionFailed, call.Name, err.Error()))
		return result
	}

	mapped := o.config.Mapper.Map(call.Name, args)
	if mapped.Failed() {
		result.Result = map[string]any{"agent": agent, "error": mapped.Error}
		reporter.Send(NewProgressUpdate(StageToolExecutionFailed, call.Name, mapped.Error))
		return result
	}

	if deferral := state.Deferral(call.Name, args); deferral != nil {
		logger.Info("Deferring tool call", zap.String("tool", call.Name), zap.Any("reason", deferral["reason"]))
		result.Result = deferral
		reporter.Send(NewProgressUpdate(StageToolExecutionDeferred, call.Name, fmt.Sprint(deferral["message"])))
		return result
	}

	reporter.Send(NewProgressUpdate(StageToolExecutionStarting, call.Name,
		fmt.Sprintf("%s is working on it.\n\n%s", agent, formatToolInputsToMarkdown(call.Name, args))))

	result.Result = o.config.Agents.CallAgent(ctx, call.Name, mapped.Params)
	state.Record(call.Name, result.Result)

	if _, failed := result.Result["error"]; failed {
		reporter.Send(NewProgressUpdate(StageToolExecutionFailed, call.Name, fmt.Sprint(result.Result["error"])))
	} else {
		reporter.Send(NewProgressUpdate(StageToolExecutionCompleted, call.Name, fmt.Sprintf("Tool %s completed successfully", call.Name)))
	}
	reporter.Send(NewToolExecutionResult(result))
	return result
}
