package analyzer

import (
	"context"

	"go.uber.org/zap"
)

const intentSystem = `You are an AI assistant analyzing GitHub comments. Your task is to
determine whether a user's comment expresses interest in working on the issue
(they propose a solution, ask a clarifying question about the code, state they
are working on it, or ask to be assigned) or is unrelated chatter.

Respond only with a JSON object with one boolean key: "wants_to_solve".

- "please assign me" -> {"wants_to_solve": true}
- "can i take this?" -> {"wants_to_solve": true}
- "i think the bug is in the login.js file" -> {"wants_to_solve": true}
- "what is this repo for?" -> {"wants_to_solve": false}
- "great issue!" -> {"wants_to_solve": false}`

type intentSignal struct {
	WantsToSolve *bool `mapstructure:"wants_to_solve"`
}

// DetectIntent reports whether the comment is someone offering to work on the
// issue. A failed or empty answer counts as intent.
func (a *Analyzer) DetectIntent(ctx context.Context, comment string) bool {
	var signal intentSignal
	if err := a.ask(ctx, "comment_intent", intentSystem, comment, &signal); err != nil {
		a.logger.Warn("intent detection failed, assuming intent", zap.Error(err))
		return true
	}
	if signal.WantsToSolve == nil {
		return true
	}
	return *signal.WantsToSolve
}
