package netdevice

// Alcatel AOS needs nothing beyond the default user-mode machine, but its
// reads have to work around echo contamination: the base reader can match
// inside the command's own echoed text, so Alcatel's
// ReadUntilPromptOrPattern hook requires a preceding newline (see
// readUntilPromptOrPatternAlcatel in reader.go) — the one per-family
// reader deviation in the whole engine.

func init() {
	registerDescriptor(&VendorDescriptor{
		Name:                     "alcatel_aos",
		DelimiterList:            []string{">", "#"},
		PatternTemplate:          `{prompt}.*?[{delimiters}]`,
		StemExtract:              stemDropLastChar,
		DisablePagingCommand:     "terminal length 0",
		ReadUntilPromptOrPattern: readUntilPromptOrPatternAlcatel,
	})
}
