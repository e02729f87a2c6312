// Package monitoring turns a running replay into a web server that reports
// the live state of the cache hierarchy.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"sync"
	"time"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/cachesim/mem/cache"
	"github.com/sarchlab/cachesim/mem/hierarchy"
	"github.com/sarchlab/cachesim/sim/hooking"
)

// Monitor can turn a simulation into a server and allows external monitoring
// of the simulation.
//
// A Monitor is also a lock. The trace replayer holds it while it accesses the
// hierarchy, and the handlers hold it while they read the hierarchy.
type Monitor struct {
	sync.Mutex

	hierarchy       *hierarchy.Hierarchy
	accessCounts    *hooking.AccessCountTracer
	portNumber      int
	profileDuration time.Duration

	progressBarsLock  sync.Mutex
	progressBars      []*ProgressBar
	nextProgressBarID int
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{
		profileDuration: time.Second,
	}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterHierarchy registers the hierarchy to be monitored.
func (m *Monitor) RegisterHierarchy(h *hierarchy.Hierarchy) {
	m.hierarchy = h
}

// RegisterAccessCountTracer exposes the counts collected by the tracer on
// /api/counts.
func (m *Monitor) RegisterAccessCountTracer(t *hooking.AccessCountTracer) {
	m.accessCounts = t
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.nextProgressBarID++
	bar := &ProgressBar{
		ID:        strconv.Itoa(m.nextProgressBarID),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar from the list of bars being reported.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// Router returns the HTTP routes of the monitor.
func (m *Monitor) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/caches", m.listCaches)
	r.HandleFunc("/api/cache/{name}", m.cacheDetails)
	r.HandleFunc("/api/stats", m.stats)
	r.HandleFunc("/api/counts", m.listAccessCounts)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)

	return r
}

// StartServer starts the monitor as a web server and returns its URL.
func (m *Monitor) StartServer() string {
	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", url)

	router := m.Router()
	go func() {
		err := http.Serve(listener, router)
		dieOnErr(err)
	}()

	return url
}

// OpenInBrowser opens the monitor page in the default browser.
func OpenInBrowser(url string) error {
	return browser.OpenURL(url + "/api/stats")
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	m.Lock()
	defer m.Unlock()

	var now uint64
	if m.hierarchy != nil {
		now = m.hierarchy.Now()
	}

	fmt.Fprintf(w, "{\"now\":%d}", now)
}

func (m *Monitor) listCaches(w http.ResponseWriter, _ *http.Request) {
	m.Lock()
	defer m.Unlock()

	names := []string{}

	if m.hierarchy != nil && m.hierarchy.Initialized() {
		for _, c := range m.hierarchy.Caches() {
			names = append(names, c.Name())
		}
	}

	writeJSON(w, names)
}

func (m *Monitor) cacheDetails(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	m.Lock()
	defer m.Unlock()

	c := m.findCacheOr404(w, name)
	if c == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(c)
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

func (m *Monitor) stats(w http.ResponseWriter, _ *http.Request) {
	m.Lock()
	defer m.Unlock()

	if m.hierarchy == nil || !m.hierarchy.Initialized() {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, err := w.Write([]byte("Hierarchy not initialized"))
		dieOnErr(err)

		return
	}

	writeJSON(w, m.hierarchy.Report())
}

func (m *Monitor) listAccessCounts(w http.ResponseWriter, _ *http.Request) {
	counts := map[string]hooking.AccessCount{}

	if m.accessCounts != nil {
		for _, name := range m.accessCounts.Names() {
			counts[name] = m.accessCounts.Count(name)
		}
	}

	writeJSON(w, counts)
}

func (m *Monitor) findCacheOr404(
	w http.ResponseWriter,
	name string,
) *cache.Cache {
	var c *cache.Cache
	if m.hierarchy != nil {
		c = m.hierarchy.FindCache(name)
	}

	if c == nil {
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte("Cache not found"))
		dieOnErr(err)
	}

	return c
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	bars := make([]progressBarState, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		bars = append(bars, b.snapshot())
	}

	writeJSON(w, bars)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	rsp := resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	}

	writeJSON(w, rsp)
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		w.WriteHeader(http.StatusConflict)
		fmt.Fprintf(w, "Error: %s", err)

		return
	}

	time.Sleep(m.profileDuration)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	bytes, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
