package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/RedHatInsights/connection-catalog/internal/config"
	"github.com/RedHatInsights/connection-catalog/internal/connection_repository"
	"github.com/RedHatInsights/connection-catalog/internal/middlewares"
	"github.com/RedHatInsights/connection-catalog/internal/platform/logger"
	"github.com/RedHatInsights/connection-catalog/internal/platform/table"

	"github.com/gorilla/mux"
)

const (
	TEST_NAMESPACE  = "test-workspace"
	TEST_CLIENT_ID  = "test_client_1"
	TEST_CLIENT_PSK = "12345"
	TEST_ORG_ID     = "1979710"
	TEST_ACCOUNT    = "540155"
	OTHER_NAMESPACE = "other-workspace"
)

func init() {
	logger.InitLogger()
}

func connectionsEndpoint(cfg *config.Config, namespace string) string {
	return cfg.UrlBasePath + "/namespaces/" + namespace + "/connections"
}

func createConnectionPostBody(name string, connectionType string) io.Reader {
	jsonString := fmt.Sprintf("{\"name\": \"%s\", \"type\": \"%s\", \"properties\": {\"host\": \"localhost\"}}", name, connectionType)
	return strings.NewReader(jsonString)
}

var _ = Describe("ConnectionManagement", func() {

	var (
		cms *ConnectionManagementServer
		cfg *config.Config
	)

	makeRequest := func(method string, url string, body io.Reader) *httptest.ResponseRecorder {
		req, err := http.NewRequest(method, url, body)
		Expect(err).NotTo(HaveOccurred())

		req.Header.Add(middlewares.PSKClientIdHeader, TEST_CLIENT_ID)
		req.Header.Add(middlewares.PSKOrgIdHeader, TEST_ORG_ID)
		req.Header.Add(middlewares.PSKAccountHeader, TEST_ACCOUNT)
		req.Header.Add(middlewares.PSKHeader, TEST_CLIENT_PSK)

		rr := httptest.NewRecorder()
		cms.router.ServeHTTP(rr, req)
		return rr
	}

	createConnection := func(namespace string, name string, connectionType string) *httptest.ResponseRecorder {
		return makeRequest("POST", connectionsEndpoint(cfg, namespace), createConnectionPostBody(name, connectionType))
	}

	BeforeEach(func() {
		apiMux := mux.NewRouter()
		cfg = config.GetConfig()
		cfg.ServiceToServiceCredentials[TEST_CLIENT_ID] = TEST_CLIENT_PSK

		catalog := connection_repository.NewConnectionStore(table.NewInMemoryTable())
		announcer := &connection_repository.FakeConnectionEventAnnouncer{}

		cms = NewConnectionManagementServer(catalog, announcer, apiMux, cfg.UrlBasePath, cfg)
		cms.Routes()
	})

	Describe("Creating a connection", func() {
		Context("With a valid request", func() {
			It("Should create the connection and return the derived id", func() {

				rr := createConnection(TEST_NAMESPACE, "My DB!", "DATABASE")

				Expect(rr.Code).To(Equal(http.StatusCreated))

				var m map[string]string
				json.Unmarshal(rr.Body.Bytes(), &m)
				Expect(m).Should(HaveKeyWithValue("id", "my_db_"))
			})
		})

		Context("With a name that collides with an existing connection", func() {
			It("Should fail with a conflict", func() {

				rr := createConnection(TEST_NAMESPACE, "My DB!", "DATABASE")
				Expect(rr.Code).To(Equal(http.StatusCreated))

				rr = createConnection(TEST_NAMESPACE, "my db!", "KAFKA")
				Expect(rr.Code).To(Equal(http.StatusConflict))
			})

			It("Should allow the same name in another namespace", func() {

				rr := createConnection(TEST_NAMESPACE, "My DB!", "DATABASE")
				Expect(rr.Code).To(Equal(http.StatusCreated))

				rr = createConnection(OTHER_NAMESPACE, "My DB!", "DATABASE")
				Expect(rr.Code).To(Equal(http.StatusCreated))
			})
		})

		Context("With an invalid request", func() {
			It("Should reject a request without a name", func() {

				rr := makeRequest("POST", connectionsEndpoint(cfg, TEST_NAMESPACE), strings.NewReader("{\"type\": \"DATABASE\"}"))
				Expect(rr.Code).To(Equal(http.StatusBadRequest))
			})

			It("Should reject a request with an unknown connection type", func() {

				rr := createConnection(TEST_NAMESPACE, "floppy archive", "FLOPPY")
				Expect(rr.Code).To(Equal(http.StatusBadRequest))
			})

			It("Should reject a request with a malformed json body", func() {

				rr := makeRequest("POST", connectionsEndpoint(cfg, TEST_NAMESPACE), strings.NewReader("{not json"))
				Expect(rr.Code).To(Equal(http.StatusBadRequest))
			})
		})
	})

	Describe("Retrieving a connection", func() {
		It("Should return the connection details", func() {

			rr := createConnection(TEST_NAMESPACE, "My DB!", "DATABASE")
			Expect(rr.Code).To(Equal(http.StatusCreated))

			rr = makeRequest("GET", connectionsEndpoint(cfg, TEST_NAMESPACE)+"/my_db_", nil)
			Expect(rr.Code).To(Equal(http.StatusOK))

			var m map[string]interface{}
			json.Unmarshal(rr.Body.Bytes(), &m)
			Expect(m).Should(HaveKeyWithValue("namespace", TEST_NAMESPACE))
			Expect(m).Should(HaveKeyWithValue("id", "my_db_"))
			Expect(m).Should(HaveKeyWithValue("name", "My DB!"))
			Expect(m).Should(HaveKeyWithValue("type", "DATABASE"))
		})

		It("Should return a 404 for an unknown connection", func() {

			rr := makeRequest("GET", connectionsEndpoint(cfg, TEST_NAMESPACE)+"/missing", nil)
			Expect(rr.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("Listing connections", func() {
		BeforeEach(func() {
			Expect(createConnection(TEST_NAMESPACE, "alpha", "DATABASE").Code).To(Equal(http.StatusCreated))
			Expect(createConnection(TEST_NAMESPACE, "beta", "KAFKA").Code).To(Equal(http.StatusCreated))
			Expect(createConnection(OTHER_NAMESPACE, "gamma", "DATABASE").Code).To(Equal(http.StatusCreated))
		})

		It("Should only list connections from the requested namespace", func() {

			rr := makeRequest("GET", connectionsEndpoint(cfg, TEST_NAMESPACE), nil)
			Expect(rr.Code).To(Equal(http.StatusOK))

			var connections []map[string]interface{}
			json.Unmarshal(rr.Body.Bytes(), &connections)
			Expect(connections).To(HaveLen(2))
		})

		It("Should filter by connection type", func() {

			rr := makeRequest("GET", connectionsEndpoint(cfg, TEST_NAMESPACE)+"?type=KAFKA", nil)
			Expect(rr.Code).To(Equal(http.StatusOK))

			var connections []map[string]interface{}
			json.Unmarshal(rr.Body.Bytes(), &connections)
			Expect(connections).To(HaveLen(1))
			Expect(connections[0]).Should(HaveKeyWithValue("name", "beta"))
		})

		It("Should reject an unknown connection type filter", func() {

			rr := makeRequest("GET", connectionsEndpoint(cfg, TEST_NAMESPACE)+"?type=FLOPPY", nil)
			Expect(rr.Code).To(Equal(http.StatusBadRequest))
		})

		It("Should return an empty list for an empty namespace", func() {

			rr := makeRequest("GET", connectionsEndpoint(cfg, "empty-workspace"), nil)
			Expect(rr.Code).To(Equal(http.StatusOK))
			Expect(strings.TrimSpace(rr.Body.String())).To(Equal("[]"))
		})
	})

	Describe("Updating a connection", func() {
		It("Should update the metadata without changing the id", func() {

			rr := createConnection(TEST_NAMESPACE, "My DB!", "DATABASE")
			Expect(rr.Code).To(Equal(http.StatusCreated))

			rr = makeRequest("PUT", connectionsEndpoint(cfg, TEST_NAMESPACE)+"/my_db_", createConnectionPostBody("My Renamed DB", "DATABASE"))
			Expect(rr.Code).To(Equal(http.StatusOK))

			rr = makeRequest("GET", connectionsEndpoint(cfg, TEST_NAMESPACE)+"/my_db_", nil)
			Expect(rr.Code).To(Equal(http.StatusOK))

			var m map[string]interface{}
			json.Unmarshal(rr.Body.Bytes(), &m)
			Expect(m).Should(HaveKeyWithValue("id", "my_db_"))
			Expect(m).Should(HaveKeyWithValue("name", "My Renamed DB"))
		})

		It("Should return a 404 for an unknown connection", func() {

			rr := makeRequest("PUT", connectionsEndpoint(cfg, TEST_NAMESPACE)+"/missing", createConnectionPostBody("missing", "DATABASE"))
			Expect(rr.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("Deleting a connection", func() {
		It("Should delete the connection", func() {

			rr := createConnection(TEST_NAMESPACE, "doomed", "FILE")
			Expect(rr.Code).To(Equal(http.StatusCreated))

			rr = makeRequest("DELETE", connectionsEndpoint(cfg, TEST_NAMESPACE)+"/doomed", nil)
			Expect(rr.Code).To(Equal(http.StatusNoContent))

			rr = makeRequest("GET", connectionsEndpoint(cfg, TEST_NAMESPACE)+"/doomed", nil)
			Expect(rr.Code).To(Equal(http.StatusNotFound))
		})

		It("Should treat deleting an unknown connection as a no-op", func() {

			rr := makeRequest("DELETE", connectionsEndpoint(cfg, TEST_NAMESPACE)+"/missing", nil)
			Expect(rr.Code).To(Equal(http.StatusNoContent))
		})
	})

	Describe("Checking whether a connection name is taken", func() {
		It("Should report the derived id and existence", func() {

			rr := createConnection(TEST_NAMESPACE, "My DB!", "DATABASE")
			Expect(rr.Code).To(Equal(http.StatusCreated))

			rr = makeRequest("GET", connectionsEndpoint(cfg, TEST_NAMESPACE)+"/exists?name=my+db%21", nil)
			Expect(rr.Code).To(Equal(http.StatusOK))

			var m map[string]interface{}
			json.Unmarshal(rr.Body.Bytes(), &m)
			Expect(m).Should(HaveKeyWithValue("id", "my_db_"))
			Expect(m).Should(HaveKeyWithValue("exists", true))
		})

		It("Should report an unused name as available", func() {

			rr := makeRequest("GET", connectionsEndpoint(cfg, TEST_NAMESPACE)+"/exists?name=unused", nil)
			Expect(rr.Code).To(Equal(http.StatusOK))

			var m map[string]interface{}
			json.Unmarshal(rr.Body.Bytes(), &m)
			Expect(m).Should(HaveKeyWithValue("exists", false))
		})

		It("Should require the name query parameter", func() {

			rr := makeRequest("GET", connectionsEndpoint(cfg, TEST_NAMESPACE)+"/exists", nil)
			Expect(rr.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("Authentication", func() {
		It("Should reject a request without credentials", func() {

			req, err := http.NewRequest("GET", connectionsEndpoint(cfg, TEST_NAMESPACE), nil)
			Expect(err).NotTo(HaveOccurred())

			rr := httptest.NewRecorder()
			cms.router.ServeHTTP(rr, req)

			Expect(rr.Code).To(Equal(http.StatusUnauthorized))
		})

		It("Should reject a request with the wrong psk", func() {

			req, err := http.NewRequest("GET", connectionsEndpoint(cfg, TEST_NAMESPACE), nil)
			Expect(err).NotTo(HaveOccurred())

			req.Header.Add(middlewares.PSKClientIdHeader, TEST_CLIENT_ID)
			req.Header.Add(middlewares.PSKOrgIdHeader, TEST_ORG_ID)
			req.Header.Add(middlewares.PSKAccountHeader, TEST_ACCOUNT)
			req.Header.Add(middlewares.PSKHeader, "wrong-psk")

			rr := httptest.NewRecorder()
			cms.router.ServeHTTP(rr, req)

			Expect(rr.Code).To(Equal(http.StatusUnauthorized))
		})
	})
})
