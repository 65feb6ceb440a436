package netdevice

// Huawei VRP is Comware's system-view machine plus one wrinkle: an
// active/standby VRP pair prefixes its prompt with "HRP_." (e.g.
// "HRP_M<R1>"), which stemHuawei strips before applying the bracket rule.

func init() {
	registerDescriptor(&VendorDescriptor{
		Name:                 "huawei",
		DelimiterList:        []string{">", "]"},
		DelimiterLeftList:    []string{"<", "["},
		PatternTemplate:      `[{delimiter_left}]{prompt}[\-\w]*[{delimiters}]`,
		StemExtract:          stemHuawei,
		DisablePagingCommand: "screen-length 0 temporary",
		PrivCheck:            "]",
		ConfigEnter:          "system-view",
		ConfigExit:           "return",
		ConfigCheck:          "]",
		SendConfigSet:        comwareSendConfigSet,
		Cleanup:              comwareCleanup,
	})
}
