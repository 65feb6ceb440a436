package netdevice

import (
	"context"
	"regexp"
	"sort"

	"github.com/alexpitcher/netline/internal/logging"
)

// AutodetectRule is one entry of the fingerprint table: a probe command,
// the family it identifies, the case-insensitive patterns searched for in
// the response, and the priority awarded on a match. Priority is constant
// (99) across every rule in this table — tie-breaking among rules sharing
// a cmd is "first match wins", not a ranking; see the design notes on why
// that's intentional rather than an oversight.
type AutodetectRule struct {
	Family         string
	Cmd            string
	SearchPatterns []string
	Priority       int

	compiled []*regexp.Regexp
}

// autodetectRules groups naturally around a handful of probe commands
// shared by many CLIs ("show version" foremost), which is exactly what
// makes grouping-by-cmd-then-ordering-by-popularity a useful
// micro-optimization: most devices get identified off the very first
// command transmitted.
var autodetectRules = []AutodetectRule{
	{Family: "alcatel_aos", Cmd: "show system", SearchPatterns: []string{`Alcatel-Lucent`}, Priority: 99},
	{Family: "alcatel_sros", Cmd: "show version", SearchPatterns: []string{`Nokia`, `Alcatel`}, Priority: 99},
	{Family: "apresia_aeos", Cmd: "show system", SearchPatterns: []string{`Apresia`}, Priority: 99},
	{Family: "arista_eos", Cmd: "show version", SearchPatterns: []string{`Arista`}, Priority: 99},
	{Family: "ciena_saos", Cmd: "software show", SearchPatterns: []string{`saos`}, Priority: 99},
	{Family: "cisco_asa", Cmd: "show version", SearchPatterns: []string{`Cisco Adaptive Security Appliance`, `Cisco ASA`}, Priority: 99},
	{Family: "cisco_ios", Cmd: "show version", SearchPatterns: []string{`Cisco IOS Software`, `Cisco Internetwork Operating System Software`}, Priority: 99},
	{Family: "cisco_ios_xe", Cmd: "show version", SearchPatterns: []string{`Cisco IOS XE Software`, `Cisco IOS-XE software`, `IOS-XE ROMMON`}, Priority: 99},
	{Family: "cisco_nxos", Cmd: "show version", SearchPatterns: []string{`Cisco Nexus Operating System`, `NX-OS`}, Priority: 99},
	{Family: "cisco_xr", Cmd: "show version", SearchPatterns: []string{`Cisco IOS XR`}, Priority: 99},
	{Family: "dell_force10", Cmd: "show version", SearchPatterns: []string{`Real Time Operating System Software`}, Priority: 99},
	{Family: "dell_os9", Cmd: "show system", SearchPatterns: []string{`Dell Application Software Version:  9`, `Dell Networking OS Version : 9`}, Priority: 99},
	{Family: "dell_os10", Cmd: "show version", SearchPatterns: []string{`Dell EMC Networking OS10.Enterprise`}, Priority: 99},
	{Family: "dell_powerconnect", Cmd: "show system", SearchPatterns: []string{`PowerConnect`}, Priority: 99},
	{Family: "f5_tmsh", Cmd: "show sys version", SearchPatterns: []string{`BIG-IP`}, Priority: 99},
	{Family: "f5_linux", Cmd: "cat /etc/issue", SearchPatterns: []string{`BIG-IP`}, Priority: 99},
	{Family: "hp_comware", Cmd: "display version", SearchPatterns: []string{`HPE Comware`, `HP Comware`}, Priority: 99},
	{Family: "huawei", Cmd: "display version", SearchPatterns: []string{`Huawei Technologies`, `Huawei Versatile Routing Platform Software`}, Priority: 99},
	{Family: "juniper_junos", Cmd: "show version", SearchPatterns: []string{`JUNOS Software Release`, `JUNOS .+ Software`, `JUNOS OS Kernel`, `JUNOS Base Version`}, Priority: 99},
	{Family: "linux", Cmd: "uname -a", SearchPatterns: []string{`Linux`}, Priority: 99},
	{Family: "extreme_exos", Cmd: "show version", SearchPatterns: []string{`ExtremeXOS`}, Priority: 99},
	{Family: "extreme_netiron", Cmd: "show version", SearchPatterns: []string{`(NetIron|MLX)`}, Priority: 99},
	{Family: "extreme_slx", Cmd: "show version", SearchPatterns: []string{`SLX-OS Operating System Software`}, Priority: 99},
	{Family: "extreme_tierra", Cmd: "show version", SearchPatterns: []string{`TierraOS Software`}, Priority: 99},
	{Family: "ubiquiti_edgeswitch", Cmd: "show version", SearchPatterns: []string{`EdgeSwitch`}, Priority: 99},
	{Family: "cisco_wlc_85", Cmd: "show inventory", SearchPatterns: []string{`Cisco Wireless Controller`}, Priority: 99},
	{Family: "mellanox_mlnxos", Cmd: "show version", SearchPatterns: []string{`Onyx`, `SX_PPC_M460EX`}, Priority: 99},
	{Family: "yamaha", Cmd: "show copyright", SearchPatterns: []string{`Yamaha Corporation`}, Priority: 99},
	{Family: "fortinet", Cmd: "get system status", SearchPatterns: []string{`FortiOS`, `FortiGate`}, Priority: 99},
	{Family: "paloalto_panos", Cmd: "show system info", SearchPatterns: []string{`model:\s+PA`}, Priority: 99},
	{Family: "supermicro_smis", Cmd: "show system info", SearchPatterns: []string{`Super Micro Computer`}, Priority: 99},
	{Family: "flexvnf", Cmd: "show system package-info", SearchPatterns: []string{`Versa FlexVNF`}, Priority: 99},
}

// invalidResponsePatterns are the case-insensitive signatures of "this
// device rejected the command", which scores a rule at zero regardless of
// its search patterns (the command simply isn't understood here).
var invalidResponsePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)% Invalid input detected`),
	regexp.MustCompile(`(?i)syntax error, expecting`),
	regexp.MustCompile(`(?i)Error: Unrecognized command`),
	regexp.MustCompile(`(?i)%Error`),
	regexp.MustCompile(`(?i)command not found`),
	regexp.MustCompile(`(?i)Syntax Error: unexpected argument`),
	regexp.MustCompile(`(?i)% Unrecognized command found at`),
}

func init() {
	for i := range autodetectRules {
		rule := &autodetectRules[i]
		rule.compiled = make([]*regexp.Regexp, 0, len(rule.SearchPatterns))
		for _, sp := range rule.SearchPatterns {
			rule.compiled = append(rule.compiled, regexp.MustCompile("(?i)"+sp))
		}
	}
}

// orderedRules sorts the table so that the cmd shared by the most families
// is transmitted first: a stable ascending sort on each cmd's popularity,
// then a full reversal. The reversal is what makes the ordering pay off —
// together with the response cache, most devices are identified off the
// very first command sent.
func orderedRules() []AutodetectRule {
	counts := make(map[string]int, len(autodetectRules))
	for _, r := range autodetectRules {
		counts[r.Cmd]++
	}

	out := make([]AutodetectRule, len(autodetectRules))
	copy(out, autodetectRules)
	sort.SliceStable(out, func(i, j int) bool {
		return counts[out[i].Cmd] < counts[out[j].Cmd]
	})
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// probeDescriptor is the neutral, Terminal-like session the auto-detect
// probe connects with: delimiters ">" and "#", the default prompt
// template, and "terminal length 0" to disable paging.
var probeDescriptor = &VendorDescriptor{
	Name:                 "autodetect",
	DelimiterList:        []string{">", "#"},
	PatternTemplate:      `{prompt}.*?(\(.*?\))?[{delimiters}]`,
	StemExtract:          stemDropLastChar,
	DisablePagingCommand: "terminal length 0",
}

func scoreResponse(resp string, rule AutodetectRule) int {
	for _, re := range invalidResponsePatterns {
		if re.MatchString(resp) {
			return 0
		}
	}
	for _, re := range rule.compiled {
		if re.MatchString(resp) {
			return rule.Priority
		}
	}
	return 0
}

// Autodetect opens a neutral session against opts.Host and returns the
// identified vendor family, or "" if no rule matched. It never returns an
// error for a probe miss; only a connect failure is surfaced as an error.
// cisco_wlc_85 is remapped to cisco_wlc on match, even though no dispatcher
// entry exists for that family — callers must tolerate an unregistered
// family name coming back.
func Autodetect(ctx context.Context, opts Options) (string, error) {
	resolved := opts.withDefaults()
	probe := newDevice(resolved, probeDescriptor)
	return autodetectProbe(ctx, probe, opts.Host)
}

// autodetectProbe runs the probe loop against an already-constructed
// Device, split out from Autodetect so tests can drive it over a
// Simulator transport via Device.WithTransport instead of a real SSH dial.
func autodetectProbe(ctx context.Context, probe *Device, host string) (string, error) {
	if err := probe.Connect(ctx); err != nil {
		return "", err
	}
	defer probe.transport.Close()

	cache := make(map[string]string)
	for _, rule := range orderedRules() {
		resp, cached := cache[rule.Cmd]
		if !cached {
			out, err := probe.SendCommand(rule.Cmd, DefaultSendCommandOptions())
			if err != nil {
				logging.Debugf("netdevice: autodetect probe %q failed host=%s: %v", rule.Cmd, host, err)
				cache[rule.Cmd] = ""
				continue
			}
			cache[rule.Cmd] = out
			resp = out
		}

		if score := scoreResponse(resp, rule); score > 0 {
			family := rule.Family
			if family == "cisco_wlc_85" {
				family = "cisco_wlc"
			}
			logging.Infof("netdevice: autodetect matched host=%s family=%s cmd=%q", host, family, rule.Cmd)
			return family, nil
		}
	}

	logging.Infof("netdevice: autodetect no match host=%s", host)
	return "", nil
}
