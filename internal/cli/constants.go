package cli

// TabWidth is the width of tabs in formatted output.
const TabWidth = 2
