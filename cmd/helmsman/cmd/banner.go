package cmd

import (
	"fmt"
)

const banner = `
  _    _      _
 | |  | |    | |
 | |__| | ___| |_ __ ___  ___ _ __ ___   __ _ _ __
 |  __  |/ _ \ | '_ ` + "`" + ` _ \/ __| '_ ` + "`" + ` _ \ / _` + "`" + ` | '_ \
 | |  | |  __/ | | | | | \__ \ | | | | | (_| | | | |
 |_|  |_|\___|_|_| |_| |_|___/_| |_| |_|\__,_|_| |_|

`

func printBanner() {
	fmt.Printf("\x1b[34m%s\x1b[0m", banner)
	fmt.Printf("\x1b[32m  Multi-Factor Authentication Service - Version %s\x1b[0m\n\n", Version)
}
