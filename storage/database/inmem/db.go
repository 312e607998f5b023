// Package inmemdb provides map-backed repositories for tests and local runs.
package inmemdb

import (
	"sync"

	"github.com/elixirhub/metricsdb/core/catalog"
	"github.com/elixirhub/metricsdb/core/event"
	"github.com/elixirhub/metricsdb/core/metrics"
	"github.com/elixirhub/metricsdb/core/response"
)

// DB holds every table under one lock so multi-table writes stay consistent.
type DB struct {
	mutex   sync.RWMutex
	pkCount int

	nodes        map[int]*event.Node
	users        map[int]*event.User
	institutions map[int]*event.Institution
	events       map[int]*event.Event

	questions    map[int]*catalog.Question
	answers      map[int]*catalog.Answer
	sets         map[int]*catalog.QuestionSet
	setQuestions map[int][]int // set ID -> question IDs, insertion order
	superSets    map[int]*catalog.QuestionSuperSet
	superSetSets map[int][]int // super set ID -> set IDs, insertion order

	responseSets map[int]*response.ResponseSet

	quality     map[int]*metrics.Quality
	impact      map[int]*metrics.Impact
	demographic map[int]*metrics.Demographic
}

func NewDB() *DB {
	return &DB{
		nodes:        make(map[int]*event.Node),
		users:        make(map[int]*event.User),
		institutions: make(map[int]*event.Institution),
		events:       make(map[int]*event.Event),
		questions:    make(map[int]*catalog.Question),
		answers:      make(map[int]*catalog.Answer),
		sets:         make(map[int]*catalog.QuestionSet),
		setQuestions: make(map[int][]int),
		superSets:    make(map[int]*catalog.QuestionSuperSet),
		superSetSets: make(map[int][]int),
		responseSets: make(map[int]*response.ResponseSet),
		quality:      make(map[int]*metrics.Quality),
		impact:       make(map[int]*metrics.Impact),
		demographic:  make(map[int]*metrics.Demographic),
	}
}

// nextPK must be called with the write lock held.
func (db *DB) nextPK() int {
	db.pkCount++
	return db.pkCount
}

// AddNode seeds a node; test fixture helper.
func (db *DB) AddNode(name string) event.Node {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	node := event.Node{ID: db.nextPK(), Name: name}
	db.nodes[node.ID] = &node
	return node
}

// AddUser seeds a user account; test fixture helper.
func (db *DB) AddUser(username, email string, nodeID int) event.User {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	usr := event.User{ID: db.nextPK(), Username: username, Email: email, NodeID: nodeID}
	db.users[usr.ID] = &usr
	return usr
}
