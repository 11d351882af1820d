// Package main provides a small interactive terminal client for the game
// server, useful for manual play and debugging.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/JSW0303/Gomoku/internal/protocol"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:9999", "server address")
	flag.Parse()

	conn, err := net.Dial("tcp", *addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connecting to %s: %v\n", *addr, err)
		os.Exit(1)
	}
	defer conn.Close()

	done := make(chan struct{})
	go listen(conn, done)

	fmt.Println("commands:")
	fmt.Println("  list            show open rooms")
	fmt.Println("  create          create a room")
	fmt.Println("  join <room>     join a room")
	fmt.Println("  move <x> <y>    place a stone")
	fmt.Println("  chat <text>     send a chat message")
	fmt.Println("  quit            disconnect")

	stdin := bufio.NewScanner(os.Stdin)
	for prompt(); stdin.Scan(); prompt() {
		line := strings.TrimSpace(stdin.Text())
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, " ", 2)
		arg := ""
		if len(parts) > 1 {
			arg = parts[1]
		}

		var req protocol.Request
		switch strings.ToLower(parts[0]) {
		case "quit":
			return
		case "list":
			req = protocol.ListRoomsRequest{}
		case "create":
			req = protocol.CreateRoomRequest{}
		case "join":
			id, err := strconv.ParseInt(arg, 10, 64)
			if err != nil {
				fmt.Println("usage: join <room>")
				continue
			}
			req = protocol.JoinRoomRequest{RoomID: id}
		case "move":
			coords := strings.Fields(arg)
			if len(coords) != 2 {
				fmt.Println("usage: move <x> <y>")
				continue
			}
			x, errX := strconv.Atoi(coords[0])
			y, errY := strconv.Atoi(coords[1])
			if errX != nil || errY != nil {
				fmt.Println("coordinates must be integers")
				continue
			}
			req = protocol.PlaceStoneRequest{X: x, Y: y}
		case "chat":
			if arg == "" {
				fmt.Println("usage: chat <text>")
				continue
			}
			req = protocol.ChatRequest{Text: arg}
		default:
			fmt.Println("unknown command")
			continue
		}

		payload, err := protocol.EncodeRequest(req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "encoding request: %v\n", err)
			continue
		}
		if _, err := conn.Write(append(payload, '\n')); err != nil {
			fmt.Fprintf(os.Stderr, "connection lost: %v\n", err)
			return
		}

		select {
		case <-done:
			return
		default:
		}
	}
}

func prompt() {
	fmt.Print("> ")
}

// listen renders server messages until the connection closes.
func listen(conn net.Conn, done chan<- struct{}) {
	defer close(done)

	var board [][]string
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		var msg map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			continue
		}
		fmt.Println()

		switch msg["type"] {
		case protocol.TypeRoomList:
			rooms, _ := msg["rooms"].([]any)
			if len(rooms) == 0 {
				fmt.Println("no rooms yet")
				break
			}
			fmt.Printf("%-5s %-10s %s\n", "ID", "STATUS", "PLAYERS")
			for _, r := range rooms {
				entry, _ := r.(map[string]any)
				fmt.Printf("%-5v %-10v %v/2\n", entry["id"], entry["status"], entry["count"])
			}
		case protocol.TypeRoomJoined:
			fmt.Printf("joined room %v as %v\n", msg["room_id"], msg["player_id"])
		case protocol.TypeGameStateUpdate:
			board = decodeBoard(msg["board"])
			printBoard(board)
			fmt.Printf("%v to move\n", msg["turn"])
		case protocol.TypeStatus:
			fmt.Printf("[status] %v\n", msg["msg"])
		case protocol.TypeMoveMade:
			x := int(msg["x"].(float64))
			y := int(msg["y"].(float64))
			player, _ := msg["player"].(string)
			if y >= 0 && y < len(board) && x >= 0 && x < len(board[y]) {
				stone := "B"
				if player == "white" {
					stone = "W"
				}
				board[y][x] = stone
			}
			printBoard(board)
			fmt.Printf("%s played (%d, %d)\n", player, x, y)
		case protocol.TypeTurnChange:
			fmt.Printf("%v to move\n", msg["turn"])
		case protocol.TypeChatMessage:
			fmt.Printf("[%v]: %v\n", msg["sender"], msg["message"])
		case protocol.TypeError:
			fmt.Printf("[error] %v\n", msg["msg"])
		}
		prompt()
	}
	fmt.Println("\nserver closed the connection")
}

func decodeBoard(v any) [][]string {
	rows, _ := v.([]any)
	board := make([][]string, 0, len(rows))
	for _, rowAny := range rows {
		cells, _ := rowAny.([]any)
		row := make([]string, 0, len(cells))
		for _, cell := range cells {
			s, _ := cell.(string)
			row = append(row, s)
		}
		board = append(board, row)
	}
	return board
}

func printBoard(board [][]string) {
	if len(board) == 0 {
		return
	}
	fmt.Print("   ")
	for x := range board[0] {
		fmt.Printf("%-2d ", x)
	}
	fmt.Println()
	for y, row := range board {
		fmt.Printf("%2d %s\n", y, strings.Join(row, "  "))
	}
}
