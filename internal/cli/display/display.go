// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package display

import (
	"fmt"
	"strings"

	gkcolor "github.com/gookit/color"

	"github.com/platform-engineering-labs/stratum"
)

const (
	Tool    = "stratum"
	DocRoot = stratum.DocRoot

	banner = `
      _             _
  ___| |_ _ __ __ _| |_ _   _ _ __ ___
 / __| __| '__/ _' | __| | | | '_ ' _ \
 \__ \ |_| | | (_| | |_| |_| | | | | | |
 |___/\__|_|  \__,_|\__|\__,_|_| |_| |_|  vversion
`
)

func PrintBanner() {
	fmt.Println(LightBlue(strings.Replace(banner, "version", stratum.Version, 1)))
}

func Success(msg string) {
	fmt.Print(Green(fmt.Sprintf("%s\n", msg)))
}

func Error(msg string) {
	fmt.Print(Red(fmt.Sprintf("Error: %s\n", msg)))
}

func Links(docLinkName string, deepLinkName string) string {
	deepLink := DocRoot
	if deepLinkName != "" {
		deepLink += "/" + deepLinkName
	}

	return "\n" + Gold("Code: ") + "https://github.com/platform-engineering-labs/stratum" +
		"\n" + Gold(fmt.Sprintf("%s: ", docLinkName)) + deepLink +
		"\n" + Gold("Bugs: ") + "https://github.com/platform-engineering-labs/stratum/issues"
}

func Gold(s string) string {
	return gkcolor.RGB(181, 181, 91).Sprint(s)
}

func Green(s string) string {
	return gkcolor.FgGreen.Sprint(s)
}

func Grey(s string) string {
	return gkcolor.RGB(138, 138, 138).Sprint(s)
}

func LightBlue(s string) string {
	return gkcolor.HiBlue.Sprint(s)
}

func Red(s string) string {
	return gkcolor.FgRed.Sprint(s)
}
