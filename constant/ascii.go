package constant

// AsciiArtLogo is the application's ASCII art banner shown on the root help screen.
const AsciiArtLogo = `
   ___ ___  _   _ _ __ ___  __ _
  / __/ _ \| | | | '__/ __|/ _' |
 | (_| (_) | |_| | |  \__ \ (_| |
  \___\___/ \__,_|_|  |___/\__,_|
`
