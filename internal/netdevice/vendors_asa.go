package netdevice

import "strings"

// Cisco ASA is IOS-like (enable/conf t, same "#"/")#" checks) but layers
// one extra informational query onto connect: "show mode" reveals
// whether the box runs multiple security contexts, surfaced to callers
// via Device.MultipleMode rather than affecting the mode machine itself.
// Its prompt additionally carries a "/context" suffix stemASA strips.

func asaConnect(d *Device) error {
	if err := d.establish(); err != nil {
		return err
	}
	if err := d.SetBasePrompt(d.timeout); err != nil {
		return err
	}
	if err := enableModeIOSLike(d); err != nil {
		return err
	}
	if err := d.disablePaging(); err != nil {
		return err
	}

	out, err := d.SendCommand("show mode", DefaultSendCommandOptions())
	if err != nil {
		return err
	}
	if strings.Contains(strings.ToLower(out), "multiple") {
		d.multipleMode = true
	}
	return nil
}

func init() {
	registerDescriptor(&VendorDescriptor{
		Name:                 "cisco_asa",
		DelimiterList:        []string{">", "#"},
		PatternTemplate:      `{prompt}.*?(\(.*?\))?[{delimiters}]`,
		StemExtract:          stemASA,
		DisablePagingCommand: "terminal pager 0",
		Connect:              asaConnect,
		PrivEnter:            "enable",
		PrivExit:             "disable",
		PrivCheck:            "#",
		ConfigEnter:          "conf t",
		ConfigExit:           "end",
		ConfigCheck:          ")#",
		SendConfigSet:        iosLikeSendConfigSet,
		Cleanup:              iosLikeCleanup,
	})
}
