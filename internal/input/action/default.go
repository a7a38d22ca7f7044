package action

import (
	"github.com/dshills/vimkeys/internal/input/mode"
	"github.com/dshills/vimkeys/internal/input/pattern"
)

// Built-in action kinds.
const (
	// Abstract kinds, never triggered directly.
	KindMotion   Kind = "motion"
	KindOperator Kind = "operator"

	KindMoveLeft          Kind = "cursor.moveLeft"
	KindMoveDown          Kind = "cursor.moveDown"
	KindMoveUp            Kind = "cursor.moveUp"
	KindMoveRight         Kind = "cursor.moveRight"
	KindWordForward       Kind = "cursor.wordForward"
	KindWordBackward      Kind = "cursor.wordBackward"
	KindWordEndForward    Kind = "cursor.wordEndForward"
	KindLineStart         Kind = "cursor.moveLineStart"
	KindLineEnd           Kind = "cursor.moveLineEnd"
	KindFirstNonBlank     Kind = "cursor.firstNonBlank"
	KindFirstLine         Kind = "cursor.moveFirstLine"
	KindLastLine          Kind = "cursor.moveLastLine"
	KindFindForward       Kind = "cursor.findForward"
	KindFindBackward      Kind = "cursor.findBackward"
	KindTillForward       Kind = "cursor.tillForward"
	KindTillBackward      Kind = "cursor.tillBackward"
	KindRepeatFind        Kind = "cursor.repeatFind"
	KindMatchingBracket   Kind = "cursor.matchingBracket"
	KindGotoMarkLine      Kind = "cursor.gotoMarkLine"
	KindGotoMark          Kind = "cursor.gotoMark"
	KindHalfPageDown      Kind = "view.halfPageDown"
	KindHalfPageUp        Kind = "view.halfPageUp"
	KindCenterCursor      Kind = "view.centerCursor"
	KindDelete            Kind = "operator.delete"
	KindChange            Kind = "operator.change"
	KindYank              Kind = "operator.yank"
	KindIndent            Kind = "operator.indent"
	KindOutdent           Kind = "operator.outdent"
	KindLinewise          Kind = "operator.linewise"
	KindDeleteChar        Kind = "editor.deleteChar"
	KindReplaceChar       Kind = "editor.replaceChar"
	KindPasteAfter        Kind = "editor.pasteAfter"
	KindPasteBefore       Kind = "editor.pasteBefore"
	KindUndo              Kind = "editor.undo"
	KindRedo              Kind = "editor.redo"
	KindRepeatLast        Kind = "editor.repeatLast"
	KindSetMark           Kind = "editor.setMark"
	KindSelectRegister    Kind = "editor.selectRegister"
	KindRecordMacro       Kind = "macro.record"
	KindPlayMacro         Kind = "macro.play"
	KindInsertBefore      Kind = "mode.insert"
	KindInsertAfter       Kind = "mode.append"
	KindInsertLineStart   Kind = "mode.insertLineStart"
	KindInsertLineEnd     Kind = "mode.appendLineEnd"
	KindOpenLineBelow     Kind = "mode.openBelow"
	KindOpenLineAbove     Kind = "mode.openAbove"
	KindVisual            Kind = "mode.visual"
	KindVisualLine        Kind = "mode.visualLine"
	KindVisualBlock       Kind = "mode.visualBlock"
	KindCommandLine       Kind = "mode.command"
	KindEscape            Kind = "mode.normal"
	KindInsertBackspace   Kind = "editor.deleteCharBackward"
	KindInsertNewline     Kind = "editor.insertNewline"
	KindInsertTab         Kind = "editor.insertTab"
	KindInsertPrevText    Kind = "editor.insertLastInserted"
	KindInsertCommandOnce Kind = "mode.insertNormalOnce"
)

var (
	normal      = mode.NewSet(mode.ModeNormal)
	visual      = mode.VisualModes
	normVisual  = mode.NormalAndVisual
	insert      = mode.Insert
	pending     = mode.NewSet(mode.ModeOperatorPending)
	motionModes = mode.Union(mode.NormalAndVisual, pending)
)

// motion describes a movement usable on its own or after an operator.
func motion(kind Kind, keys pattern.Pattern, desc string) Descriptor {
	return Descriptor{
		Kind:        kind,
		Modes:       motionModes,
		Keys:        keys,
		Flags:       Flags{IsMotion: true},
		Description: desc,
		Category:    "Movement",
	}
}

// operator describes an action that waits for a motion.
func operator(kind Kind, keys pattern.Pattern, desc string) Descriptor {
	return Descriptor{
		Kind:        kind,
		Modes:       normVisual,
		Keys:        keys,
		Flags:       Flags{IsOperator: true, CanBeRepeatedWithDot: true},
		Description: desc,
		Category:    "Operators",
	}
}

// command describes a normal-mode command.
func command(kind Kind, keys pattern.Pattern, flags Flags, desc, category string) Descriptor {
	return Descriptor{
		Kind:        kind,
		Modes:       normal,
		Keys:        keys,
		Flags:       flags,
		Description: desc,
		Category:    category,
	}
}

// Defaults returns the built-in action descriptors in registration order.
func Defaults() []Descriptor {
	k := pattern.Keys
	dot := Flags{CanBeRepeatedWithDot: true}

	return []Descriptor{
		// Abstract kinds
		{Kind: KindMotion, Modes: motionModes, Flags: Flags{IsMotion: true}, Description: "Base motion"},
		{Kind: KindOperator, Modes: normVisual, Flags: Flags{IsOperator: true}, Description: "Base operator"},

		// Movement - basic
		motion(KindMoveLeft, pattern.OneOf("h", "<Left>", "<BS>"), "Move left"),
		motion(KindMoveDown, pattern.OneOf("j", "<Down>"), "Move down"),
		motion(KindMoveUp, pattern.OneOf("k", "<Up>"), "Move up"),
		motion(KindMoveRight, pattern.OneOf("l", "<Right>", " "), "Move right"),

		// Movement - words
		motion(KindWordForward, k("w"), "Move to next word"),
		motion(KindWordBackward, k("b"), "Move to previous word"),
		motion(KindWordEndForward, k("e"), "Move to end of word"),

		// Movement - line
		motion(KindLineEnd, k("$"), "Move to line end"),
		motion(KindFirstNonBlank, k("^"), "Move to first non-blank"),

		// Movement - document
		motion(KindFirstLine, k("gg"), "Go to document start"),
		motion(KindLastLine, k("G"), "Go to document end"),

		// Movement - search
		motion(KindFindForward, k("f<character>"), "Find char forward"),
		motion(KindFindBackward, k("F<character>"), "Find char backward"),
		motion(KindTillForward, k("t<character>"), "Till char forward"),
		motion(KindTillBackward, k("T<character>"), "Till char backward"),
		motion(KindRepeatFind, k(";"), "Repeat last f/t/F/T"),
		motion(KindMatchingBracket, k("%"), "Go to matching bracket"),

		// Movement - marks
		motion(KindGotoMarkLine, k("'<alpha>"), "Go to mark line"),
		motion(KindGotoMark, k("`<alpha>"), "Go to mark"),

		// Scrolling
		command(KindHalfPageDown, k("<C-d>"), Flags{}, "Scroll half page down", "Scrolling"),
		command(KindHalfPageUp, k("<C-u>"), Flags{}, "Scroll half page up", "Scrolling"),
		command(KindCenterCursor, k("zz"), Flags{}, "Center cursor on screen", "Scrolling"),

		// Operators
		operator(KindDelete, k("d"), "Delete"),
		operator(KindChange, k("c"), "Change"),
		operator(KindYank, k("y"), "Yank"),
		operator(KindIndent, k(">"), "Indent"),
		operator(KindOutdent, k("<"), "Outdent"),

		// Repeating the operator key ("dd", "yy") applies it to whole lines.
		{
			Kind:        KindLinewise,
			Modes:       pending,
			Keys:        pattern.OneOf("d", "c", "y", ">", "<"),
			Flags:       Flags{IsMotion: true},
			Description: "Apply pending operator linewise",
			Category:    "Operators",
		},

		// Editing
		command(KindDeleteChar, k("x"), dot, "Delete character", "Editing"),
		command(KindReplaceChar, k("r<character>"), dot, "Replace character", "Editing"),
		command(KindPasteAfter, k("p"), dot, "Paste after cursor", "Editing"),
		command(KindPasteBefore, k("P"), dot, "Paste before cursor", "Editing"),
		command(KindUndo, k("u"), Flags{}, "Undo", "Editing"),
		command(KindRedo, k("<C-r>"), Flags{}, "Redo", "Editing"),
		command(KindRepeatLast, k("."), Flags{}, "Repeat last change", "Editing"),
		command(KindSetMark, k("m<alpha>"), Flags{}, "Set mark", "Marks"),
		command(KindRecordMacro, k("q<character>"), Flags{}, "Record macro", "Macros"),
		command(KindPlayMacro, k("@<character>"), Flags{}, "Play macro", "Macros"),

		// "0" is a motion only when it does not continue a count.
		{
			Kind:        KindLineStart,
			Modes:       motionModes,
			Keys:        k("0"),
			Flags:       Flags{IsMotion: true, MustBeFirstKey: true},
			Description: "Move to line start",
			Category:    "Movement",
		},
		{
			Kind:        KindSelectRegister,
			Modes:       normVisual,
			Keys:        k(`"<character>`),
			Flags:       Flags{MustBeFirstKey: true},
			Description: "Select register",
			Category:    "Registers",
		},

		// Mode switching
		command(KindInsertBefore, k("i"), dot, "Insert before cursor", "Mode"),
		command(KindInsertAfter, k("a"), dot, "Append after cursor", "Mode"),
		command(KindInsertLineStart, k("I"), dot, "Insert at line start", "Mode"),
		command(KindInsertLineEnd, k("A"), dot, "Append at line end", "Mode"),
		command(KindOpenLineBelow, k("o"), dot, "Open line below", "Mode"),
		command(KindOpenLineAbove, k("O"), dot, "Open line above", "Mode"),
		{Kind: KindVisual, Modes: mode.NewSet(mode.ModeNormal, mode.ModeVisualLine, mode.ModeVisualBlock), Keys: k("v"), Description: "Visual mode", Category: "Mode"},
		{Kind: KindVisualLine, Modes: mode.NewSet(mode.ModeNormal, mode.ModeVisual, mode.ModeVisualBlock), Keys: k("V"), Description: "Visual line mode", Category: "Mode"},
		{Kind: KindVisualBlock, Modes: mode.NewSet(mode.ModeNormal, mode.ModeVisual, mode.ModeVisualLine), Keys: k("<C-v>"), Description: "Visual block mode", Category: "Mode"},
		{Kind: KindCommandLine, Modes: normVisual, Keys: k(":"), Description: "Command line", Category: "Mode"},
		{Kind: KindEscape, Modes: mode.Union(insert, visual, mode.NewSet(mode.ModeReplace)), Keys: pattern.OneOf("<Esc>", "<C-[>", "<C-c>"), Description: "Return to normal mode", Category: "Mode"},

		// Insert mode
		{Kind: KindInsertBackspace, Modes: insert, Keys: pattern.OneOf("<BS>", "<Shift+BS>"), Description: "Delete character before cursor", Category: "Insert"},
		{Kind: KindInsertNewline, Modes: insert, Keys: k("<CR>"), Description: "Insert newline", Category: "Insert"},
		{Kind: KindInsertTab, Modes: insert, Keys: k("<Tab>"), Description: "Insert tab", Category: "Insert"},
		{Kind: KindInsertPrevText, Modes: insert, Keys: k("<C-a>"), Description: "Insert last inserted text", Category: "Insert"},
		{Kind: KindInsertCommandOnce, Modes: insert, Keys: k("<C-o>"), Description: "Run one normal mode command", Category: "Insert"},
	}
}
