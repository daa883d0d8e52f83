package app

// MinHumansToStartGame is the number of seated humans required before a lobby
// may start; empty seats are filled with bots.
const MinHumansToStartGame = 1
