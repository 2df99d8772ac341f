package engine

// Banner is printed by the hint command for anyone reading the terminal closely
const Banner = `
    _    _             ____
   / \  | | _____  __ | __ ) _ __ _____      ___ __
  / _ \ | |/ _ \ \/ / |  _ \| '__/ _ \ \ /\ / / '_ \
 / ___ \| |  __/>  <  | |_) | | | (_) \ V  V /| | | |
/_/   \_\_|\___/_/\_\ |____/|_|  \___/ \_/\_/ |_| |_|

Hey there, curious developer! 👋

Looking for something interesting?
Try the Konami Code: ↑ ↑ ↓ ↓ ← → ← → B A
Or click the logo a few times.
`

// ConsoleHint is the one-line form of the banner written to the log on start
const ConsoleHint = "Try the Konami Code: ↑ ↑ ↓ ↓ ← → ← → B A"

// statusHint is drawn on the last row
const statusHint = "esc quit"
