package param

// registerDefaults installs the full closed option set, grounded on the
// original implementation's parameter table. Options the
// original marks "not implemented" (terminal driver quirks, external
// beautifier hooks, autowrite/modeline and similar features this port does
// not carry) are kept as inert placeholders so `:set` never
// rejects a familiar name, but have no watcher.
func registerDefaults(s *Store) {
	def := func(name, short string, kind Kind, def Value, enum []string, w Watcher) {
		s.define(&Param{Name: name, Short: short, Kind: kind, Enum: enum, Value: def, Watcher: w})
	}
	b := func(v bool) Value { return Value{Kind: Bool, B: v} }
	n := func(v int) Value { return Value{Kind: Int, N: v} }
	str := func(v string) Value { return Value{Kind: String, S: v} }
	enumv := func(v string) Value { return Value{Kind: Enum, S: v} }
	list := func() Value { return Value{Kind: StringList} }

	def("autodetect", "ad", Bool, b(false), nil, nil)
	def("autogrow", "ag", Bool, b(true), nil, nil)
	def("autoindent", "ai", Bool, b(false), nil, nil)
	def("autonoedit", "an", Bool, b(false), nil, nil)
	def("autosplit", "as", Int, n(2), nil, nil)
	def("cchars", "cc", Bool, b(false), nil, nil)
	def("directory", "di", String, str(""), nil, nil)
	def("edit", "edi", Bool, b(true), nil, watchEdit)
	def("equalsize", "eq", Bool, b(true), nil, nil)
	def("errorbells", "eb", Bool, b(true), nil, nil)
	def("flash", "flash", Bool, b(false), nil, nil)
	def("format", "fmt", Enum, enumv("unix"), []string{"unix", "dos", "mac"}, nil)
	def("hardtabs", "ht", Int, n(0), nil, nil)
	def("helpfile", "hf", String, str(""), nil, nil)
	def("ignorecase", "ic", Bool, b(false), nil, nil)
	def("infoupdate", "iu", Enum, enumv("continuous"), []string{"continuous", "onupdate"}, nil)
	def("jumpscroll", "js", Enum, enumv("auto"), []string{"auto", "on", "off"}, nil)
	def("list", "ls", Bool, b(false), nil, nil)
	def("magic", "ma", Bool, b(true), nil, watchMagic)
	def("mchars", "mc", Bool, b(false), nil, nil)
	def("minrows", "mi", Int, n(2), nil, nil)
	def("number", "nu", Bool, b(false), nil, nil)
	def("paragraphs", "pa", String, str(""), nil, nil)
	def("preserve", "psv", Enum, enumv("interval"), []string{"interval", "always", "exit", "never"}, watchPreserve)
	def("preservetime", "psvt", Int, n(5), nil, nil)
	def("readonly", "ro", Bool, b(false), nil, nil)
	def("regextype", "rt", Enum, enumv("grep"), []string{"grep", "egrep", "perl"}, watchRegextype)
	def("remap", "rem", Bool, b(true), nil, nil)
	def("report", "rep", Int, n(5), nil, nil)
	def("sections", "sec", String, str(""), nil, nil)
	def("sentences", "sen", String, str(""), nil, nil)
	def("shell", "sh", String, str("/bin/sh"), nil, nil)
	def("shiftwidth", "sw", Int, n(8), nil, nil)
	def("showmatch", "sm", Bool, b(false), nil, nil)
	def("tabindent", "tabindent", Bool, b(true), nil, nil)
	def("tabs", "tabs", Bool, b(true), nil, nil)
	def("tabstop", "ts", Int, n(8), nil, watchTabstop)
	def("taglength", "tlh", Int, n(0), nil, watchTagParam)
	def("tags", "tags", StringList, list(), nil, watchTagParam)
	def("timeout", "ti", Int, n(2000), nil, nil)
	def("undolevels", "ul", Int, n(100), nil, watchUndoLevels)
	def("vbell", "vb", Bool, b(false), nil, nil)
	def("warn", "war", Bool, b(true), nil, nil)
	def("wrapmargin", "wm", Int, n(0), nil, nil)
	def("wrapscan", "ws", Bool, b(true), nil, nil)
	def("writeany", "wa", Bool, b(false), nil, nil)

	// Options the original documents as unimplemented in the port's terminal
	// model; kept so old xvirc files don't fail to source.
	def("autowrite", "aw", Bool, b(false), nil, nil)
	def("beautify", "bf", Bool, b(false), nil, nil)
	def("edcompatible", "edc", Bool, b(false), nil, nil)
	def("lisp", "lisp", Bool, b(false), nil, nil)
	def("mesg", "me", Bool, b(false), nil, nil)
	def("modeline", "mo", Bool, b(false), nil, nil)
	def("open", "ope", Bool, b(false), nil, nil)
	def("optimize", "opt", Bool, b(false), nil, nil)
	def("prompt", "pro", Bool, b(false), nil, nil)
	def("redraw", "red", Bool, b(false), nil, nil)
	def("scroll", "sc", Int, n(0), nil, nil)
	def("slowopen", "sl", Bool, b(false), nil, nil)
	def("sourceany", "so", Bool, b(false), nil, nil)
	def("term", "term", String, str(""), nil, nil)
	def("terse", "ters", Bool, b(false), nil, nil)
	def("ttytype", "tt", String, str(""), nil, nil)
	def("window", "wi", Int, n(0), nil, nil)
}
