// Package action holds the registry of triggerable actions and resolves
// pressed keys against it.
//
// A Descriptor declares the modes an action applies to, the pattern of
// keys that triggers it and its capability flags. A Registry is an
// immutable, ordered list of descriptors; order is the tie-break when
// several descriptors match the same keys.
//
// Resolve classifies the keys pressed so far:
//
//   - Matched: a descriptor applies exactly; a fresh Action is returned
//   - WaitingOnKeys: no exact match yet, but more keys could complete one
//   - NoPossibleMatch: no descriptor can ever match these keys
//
// # Usage
//
//	reg := action.NewRegistry(`\`, action.Defaults()...)
//
//	res := reg.Resolve(pressed, session, false)
//	switch res.Status {
//	case action.Matched:
//	    executor.Execute(ctx, *res.Action, session)
//	case action.WaitingOnKeys:
//	    // keep collecting keys
//	case action.NoPossibleMatch:
//	    session.FinishCommand()
//	}
package action
