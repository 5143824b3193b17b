package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/gandula/internal/adapters/http/api"
	"github.com/okian/gandula/internal/adapters/repository"
	service "github.com/okian/gandula/internal/app"
	"github.com/okian/gandula/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

// stubDeps implements the handler dependencies with canned outcomes.
type stubDeps struct {
	submitID    string
	submitErr   error
	conversions map[string]model.Conversion
}

func (s *stubDeps) Submit(ctx context.Context, eventData, metaData, rosterData []byte, coordinateSystem string) (string, error) {
	if s.submitErr != nil {
		return "", s.submitErr
	}
	return s.submitID, nil
}

func (s *stubDeps) Conversion(ctx context.Context, jobID string) (model.Conversion, error) {
	c, ok := s.conversions[jobID]
	if !ok {
		return model.Conversion{}, fmt.Errorf("%w: %s", repository.ErrNotFound, jobID)
	}
	return c, nil
}

func (s *stubDeps) Stats() map[string]interface{} {
	return map[string]interface{}{"started": true}
}

func newTestServer(deps *stubDeps) *httptest.Server {
	mux := http.NewServeMux()
	api.NewServer(deps, deps).Register(context.Background(), mux)
	return httptest.NewServer(mux)
}

func postConversion(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	resp, err := http.Post(url+"/v1/conversions", "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("post conversion: %v", err)
	}
	return resp
}

func validBody() map[string]any {
	return map[string]any{
		"event_data":  []map[string]any{},
		"meta_data":   []map[string]any{{"id": 1}},
		"roster_data": []map[string]any{},
		"coordinates": "metric",
	}
}

func TestPostConversion(t *testing.T) {
	convey.Convey("Given the conversions endpoint", t, func() {
		convey.Convey("When a valid submission is accepted", func() {
			srv := newTestServer(&stubDeps{submitID: "job-42"})
			defer srv.Close()

			resp := postConversion(t, srv.URL, validBody())
			defer resp.Body.Close()

			convey.Convey("Then the job is acknowledged as pending", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusAccepted)

				var ack struct {
					JobID  string `json:"job_id"`
					Status string `json:"status"`
				}
				convey.So(json.NewDecoder(resp.Body).Decode(&ack), convey.ShouldBeNil)
				convey.So(ack.JobID, convey.ShouldEqual, "job-42")
				convey.So(ack.Status, convey.ShouldEqual, "pending")
			})
		})

		convey.Convey("When a document is missing from the body", func() {
			srv := newTestServer(&stubDeps{submitID: "job-42"})
			defer srv.Close()

			body := validBody()
			delete(body, "roster_data")
			resp := postConversion(t, srv.URL, body)
			defer resp.Body.Close()

			convey.Convey("Then the request is rejected", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusBadRequest)
			})
		})

		convey.Convey("When the body is not JSON", func() {
			srv := newTestServer(&stubDeps{submitID: "job-42"})
			defer srv.Close()

			resp, err := http.Post(srv.URL+"/v1/conversions", "application/json", bytes.NewReader([]byte("not json")))
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()

			convey.Convey("Then the request is rejected", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusBadRequest)
			})
		})

		convey.Convey("When the queue pushes back", func() {
			srv := newTestServer(&stubDeps{submitErr: service.ErrBackpressure})
			defer srv.Close()

			resp := postConversion(t, srv.URL, validBody())
			defer resp.Body.Close()

			convey.Convey("Then the client is told to retry later", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusTooManyRequests)

				var er struct {
					Code string `json:"code"`
				}
				convey.So(json.NewDecoder(resp.Body).Decode(&er), convey.ShouldBeNil)
				convey.So(er.Code, convey.ShouldEqual, "backpressure")
			})
		})

		convey.Convey("When the method is not POST", func() {
			srv := newTestServer(&stubDeps{submitID: "job-42"})
			defer srv.Close()

			resp, err := http.Get(srv.URL + "/v1/conversions")
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()

			convey.Convey("Then the route does not exist", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestGetConversion(t *testing.T) {
	convey.Convey("Given stored conversion outcomes", t, func() {
		home := &model.Team{ID: "100", Name: "Harbor FC", Ground: model.GroundHome}
		away := &model.Team{ID: "200", Name: "Meadow United", Ground: model.GroundAway}
		deps := &stubDeps{conversions: map[string]model.Conversion{
			"done-job": {
				JobID:  "done-job",
				Status: model.ConversionDone,
				Dataset: &model.Dataset{
					Metadata: &model.Metadata{
						GameID:           "500",
						Teams:            []*model.Team{home, away},
						CoordinateSystem: "pff",
						Provider:         "pff",
					},
					Events: []*model.Event{
						{EventID: "1", Type: model.EventTypePass, Timestamp: 30, BallState: model.BallStateAlive, Team: home},
					},
				},
			},
			"pending-job": {JobID: "pending-job", Status: model.ConversionPending},
			"failed-job":  {JobID: "failed-job", Status: model.ConversionFailed, Err: "deserialize load data: bad document"},
		}}
		srv := newTestServer(deps)
		defer srv.Close()

		get := func(jobID string) *http.Response {
			resp, err := http.Get(srv.URL + "/v1/conversions/" + jobID)
			convey.So(err, convey.ShouldBeNil)
			return resp
		}

		convey.Convey("When a done job is fetched", func() {
			resp := get("done-job")
			defer resp.Body.Close()

			convey.Convey("Then the flattened dataset is returned", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)

				var rec struct {
					Metadata struct {
						GameID string `json:"game_id"`
					} `json:"metadata"`
					Events []struct {
						EventID string `json:"event_id"`
						TeamID  string `json:"team_id"`
					} `json:"events"`
				}
				convey.So(json.NewDecoder(resp.Body).Decode(&rec), convey.ShouldBeNil)
				convey.So(rec.Metadata.GameID, convey.ShouldEqual, "500")
				convey.So(rec.Events, convey.ShouldHaveLength, 1)
				convey.So(rec.Events[0].TeamID, convey.ShouldEqual, "100")
			})
		})

		convey.Convey("When a pending job is fetched", func() {
			resp := get("pending-job")
			defer resp.Body.Close()

			convey.Convey("Then only the status is returned", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)

				var status struct {
					JobID  string `json:"job_id"`
					Status string `json:"status"`
				}
				convey.So(json.NewDecoder(resp.Body).Decode(&status), convey.ShouldBeNil)
				convey.So(status.Status, convey.ShouldEqual, "pending")
			})
		})

		convey.Convey("When a failed job is fetched", func() {
			resp := get("failed-job")
			defer resp.Body.Close()

			convey.Convey("Then the stored error accompanies the status", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)

				var status struct {
					Status string `json:"status"`
					Error  string `json:"error"`
				}
				convey.So(json.NewDecoder(resp.Body).Decode(&status), convey.ShouldBeNil)
				convey.So(status.Status, convey.ShouldEqual, "failed")
				convey.So(status.Error, convey.ShouldContainSubstring, "load data")
			})
		})

		convey.Convey("When the job id is unknown", func() {
			resp := get("missing-job")
			defer resp.Body.Close()

			convey.Convey("Then the lookup is a 404", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusNotFound)
			})
		})

		convey.Convey("When the job id is empty", func() {
			resp := get("")
			defer resp.Body.Close()

			convey.Convey("Then the request is rejected", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestStatsAndHealth(t *testing.T) {
	convey.Convey("Given the monitoring endpoints", t, func() {
		srv := newTestServer(&stubDeps{})
		defer srv.Close()

		convey.Convey("When stats are fetched", func() {
			resp, err := http.Get(srv.URL + "/stats")
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()

			convey.Convey("Then the provider's view is returned as JSON", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)

				var stats map[string]any
				convey.So(json.NewDecoder(resp.Body).Decode(&stats), convey.ShouldBeNil)
				convey.So(stats["started"], convey.ShouldEqual, true)
			})
		})

		convey.Convey("When health is probed", func() {
			resp, err := http.Get(srv.URL + "/healthz")
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()

			convey.Convey("Then the probe succeeds", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
			})
		})
	})
}
