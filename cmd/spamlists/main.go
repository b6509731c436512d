package main

import (
	"fmt"
	"os"
	"strings"

	spamlists "github.com/namsoila/spam-lists"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	var debug bool
	var resolveRedirects bool

	cmd := &cobra.Command{
		Use:   "spamlists",
		Short: "Check hosts and URLs against spam listing services",
		Long: `Check hosts and URLs against spam listing services.

Listing services are declared in a TOML config file: local host
collections, DNS blacklists, the hpHosts lookup service, the Google
Safe Browsing API, and GeoIP country sources. Hosts are checked
against each source; URLs are checked against the configured tester
chain, optionally following redirects first.
`,
		Example: `  spamlists host config.toml 127.0.0.2 example.com
  spamlists url --resolve-redirects config.toml http://example.com`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug {
				spamlists.Log.SetLevel(logrus.DebugLevel)
			}
		},
		SilenceUsage: true,
	}
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	hostCmd := &cobra.Command{
		Use:   "host <config> <host>...",
		Short: "Check hosts against every configured listing source",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkHosts(args[0], args[1:])
		},
	}

	urlCmd := &cobra.Command{
		Use:   "url <config> <url>...",
		Short: "Check URLs against the configured tester chain",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkURLs(args[0], args[1:], resolveRedirects)
		},
	}
	urlCmd.Flags().BoolVar(&resolveRedirects, "resolve-redirects", false, "test redirect targets of the URLs as well")

	cmd.AddCommand(hostCmd, urlCmd)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func checkHosts(configFile string, hosts []string) error {
	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}
	sources, _, _, err := buildSources(cfg)
	if err != nil {
		return err
	}
	listed := false
	for _, host := range hosts {
		for _, source := range sources {
			ls, ok := source.(spamlists.ListingSource)
			if !ok { // URL-only testers can't answer host queries
				continue
			}
			item, err := ls.Lookup(host)
			if err != nil {
				return err
			}
			if item == nil {
				continue
			}
			listed = true
			printItem(host, item)
		}
	}
	if !listed {
		fmt.Println("not listed")
	}
	return nil
}

func checkURLs(configFile string, urls []string, resolveRedirects bool) error {
	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}
	_, chain, whitelist, err := buildSources(cfg)
	if err != nil {
		return err
	}
	tester := spamlists.NewGeneralizedURLTester(spamlists.NewURLTesterChain(chain...), whitelist, nil)
	seq, err := tester.LookupMatching(urls, resolveRedirects)
	if err != nil {
		return err
	}
	listed := false
	for seq.Next() {
		listed = true
		item := seq.Item()
		printItem(item.Value, item)
	}
	if err := seq.Err(); err != nil {
		return err
	}
	if !listed {
		fmt.Println("not listed")
	}
	return nil
}

func printItem(value string, item *spamlists.AddressListItem) {
	fmt.Printf("%s: listed by %s as %s (matched %s)\n",
		value, item.Source, strings.Join(item.Classification, ","), item.Value)
}
