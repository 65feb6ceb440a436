// Command netlinectl is the CLI surface over the netdevice session
// engine: a single "run a command" invocation for scripting, a "detect"
// probe, a subnet "sweep" for candidate hosts, and a live "dashboard"
// fleet view for interactive use.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alexpitcher/netline/internal/config"
	"github.com/alexpitcher/netline/internal/discovery"
	"github.com/alexpitcher/netline/internal/netdevice"
	"github.com/alexpitcher/netline/internal/tui"
)

const Version = "0.1.0"

func main() {
	flag.Usage = usage
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "version":
		fmt.Printf("netlinectl %s\n", Version)
		return
	case "run":
		err = runCmd(os.Args[2:])
	case "detect":
		err = detectCmd(os.Args[2:])
	case "sweep":
		err = sweepCmd(os.Args[2:])
	case "dashboard":
		err = dashboardCmd(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "netlinectl: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: netlinectl <command> [flags]

commands:
  run        connect to one host and run a single command
  detect     autodetect a host's device_type without running a command
  sweep      PTR-resolve every host in a CIDR block
  dashboard  open a live fleet dashboard over a list of hosts
  version    print the version and exit`)
}

// commonFlags registers the connection flags shared by run/detect/dashboard,
// seeded from the on-disk config's defaults so a caller need only pass
// -host once their username and timeout are set up.
func commonFlags(fs *flag.FlagSet) (*netdevice.Options, *time.Duration) {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.Default()
	}

	opts := &netdevice.Options{}
	fs.StringVar(&opts.Host, "host", "", "device hostname or address")
	fs.StringVar(&opts.Username, "user", cfg.DefaultUsername, "SSH username")
	fs.StringVar(&opts.Password, "password", "", "SSH password")
	fs.StringVar(&opts.Secret, "secret", "", "enable/privilege secret")
	fs.StringVar(&opts.DeviceType, "device-type", "", "device_type, e.g. cisco_ios (empty autodetects)")
	fs.IntVar(&opts.Port, "port", 22, "SSH port")
	fs.BoolVar(&opts.RecordTranscript, "record-transcript", false, "save a JSON transcript of the session")
	opts.RedactTranscript = cfg.RedactTranscript
	timeout := fs.Duration("timeout", cfg.Timeout(), "per-operation timeout")
	return opts, timeout
}

func runCmd(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	opts, timeout := commonFlags(fs)
	command := fs.String("command", "", "command to run")
	fs.Parse(args)

	if opts.Host == "" || opts.Username == "" || *command == "" {
		return fmt.Errorf("run requires -host, -user, and -command")
	}
	opts.Timeout = *timeout

	ctx, cancel := context.WithTimeout(context.Background(), *timeout*4)
	defer cancel()

	if opts.DeviceType == "" {
		detected, err := netdevice.Autodetect(ctx, *opts)
		if err != nil {
			return fmt.Errorf("autodetect: %w", err)
		}
		if detected == "" {
			return fmt.Errorf("autodetect: no match for %s", opts.Host)
		}
		opts.DeviceType = detected
	}

	dev, err := netdevice.Create(*opts)
	if err != nil {
		return err
	}

	var output string
	err = dev.Use(ctx, func(d *netdevice.Device) error {
		out, err := d.SendCommand(*command, netdevice.DefaultSendCommandOptions())
		output = out
		return err
	})
	if err != nil {
		return err
	}
	fmt.Print(output)
	return nil
}

func detectCmd(args []string) error {
	fs := flag.NewFlagSet("detect", flag.ExitOnError)
	opts, timeout := commonFlags(fs)
	fs.Parse(args)

	if opts.Host == "" || opts.Username == "" {
		return fmt.Errorf("detect requires -host and -user")
	}
	opts.Timeout = *timeout

	ctx, cancel := context.WithTimeout(context.Background(), *timeout*4)
	defer cancel()

	family, err := netdevice.Autodetect(ctx, *opts)
	if err != nil {
		return err
	}
	if family == "" {
		fmt.Println("no match")
		return nil
	}
	fmt.Println(family)
	return nil
}

func sweepCmd(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.Default()
	}

	fs := flag.NewFlagSet("sweep", flag.ExitOnError)
	cidr := fs.String("cidr", "", "CIDR block to sweep, e.g. 10.0.0.0/24")
	servers := fs.String("dns", strings.Join(cfg.DNSServers, ","), "comma-separated DNS servers to query (empty: system resolver)")
	timeout := fs.Duration("timeout", 2*time.Second, "per-host lookup timeout")
	fs.Parse(args)

	if *cidr == "" {
		return fmt.Errorf("sweep requires -cidr")
	}

	var opts discovery.Options
	opts.Timeout = *timeout
	if *servers != "" {
		opts.Servers = strings.Split(*servers, ",")
	}

	candidates, err := discovery.Sweep(context.Background(), *cidr, opts)
	if err != nil {
		return err
	}
	for _, c := range candidates {
		if c.Hostname == "" {
			fmt.Println(c.IP)
			continue
		}
		fmt.Printf("%s\t%s\n", c.IP, c.Hostname)
	}
	return nil
}

func dashboardCmd(args []string) error {
	fs := flag.NewFlagSet("dashboard", flag.ExitOnError)
	opts, timeout := commonFlags(fs)
	hostList := fs.String("hosts", "", "comma-separated list of hosts (overrides -host)")
	fs.Parse(args)

	var hosts []string
	if *hostList != "" {
		hosts = strings.Split(*hostList, ",")
	} else if opts.Host != "" {
		hosts = []string{opts.Host}
	}
	if len(hosts) == 0 {
		return fmt.Errorf("dashboard requires -hosts or -host")
	}
	if opts.Username == "" {
		return fmt.Errorf("dashboard requires -user")
	}
	opts.Timeout = *timeout

	return tui.Run(context.Background(), hosts, *opts)
}
