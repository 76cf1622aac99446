package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/RedHatInsights/connection-catalog/internal/config"
	"github.com/RedHatInsights/connection-catalog/internal/connection_repository"
	"github.com/RedHatInsights/connection-catalog/internal/domain"
	"github.com/RedHatInsights/connection-catalog/internal/middlewares"
	"github.com/RedHatInsights/connection-catalog/internal/platform/logger"
	"github.com/redhatinsights/platform-go-middlewares/identity"
	"github.com/redhatinsights/platform-go-middlewares/request_id"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type ConnectionManagementServer struct {
	catalog   connection_repository.ConnectionCatalog
	announcer connection_repository.ConnectionEventAnnouncer
	router    *mux.Router
	urlPrefix string
	config    *config.Config
}

func NewConnectionManagementServer(catalog connection_repository.ConnectionCatalog, announcer connection_repository.ConnectionEventAnnouncer, r *mux.Router, urlPrefix string, cfg *config.Config) *ConnectionManagementServer {
	return &ConnectionManagementServer{
		catalog:   catalog,
		announcer: announcer,
		router:    r,
		urlPrefix: urlPrefix,
		config:    cfg,
	}
}

func (s *ConnectionManagementServer) Routes() {
	mmw := &middlewares.MetricsMiddleware{}
	amw := &middlewares.AuthMiddleware{
		Secrets:      s.config.ServiceToServiceCredentials,
		IdentityAuth: identity.EnforceIdentity,
	}

	securedSubRouter := s.router.PathPrefix(s.urlPrefix + "/namespaces/{namespace}/connections").Subrouter()
	securedSubRouter.Use(logger.AccessLoggerMiddleware,
		mmw.RecordHTTPMetrics,
		amw.Authenticate)

	securedSubRouter.HandleFunc("", s.handleConnectionCreate()).Methods(http.MethodPost)
	securedSubRouter.HandleFunc("", s.handleConnectionList()).Methods(http.MethodGet)
	securedSubRouter.HandleFunc("/exists", s.handleConnectionExists()).Methods(http.MethodGet)
	securedSubRouter.HandleFunc("/{id}", s.handleConnectionGet()).Methods(http.MethodGet)
	securedSubRouter.HandleFunc("/{id}", s.handleConnectionUpdate()).Methods(http.MethodPut)
	securedSubRouter.HandleFunc("/{id}", s.handleConnectionDelete()).Methods(http.MethodDelete)
}

type connectionMetaRequest struct {
	Name        string            `json:"name" validate:"required"`
	Type        string            `json:"type" validate:"required"`
	Description string            `json:"description"`
	Properties  map[string]string `json:"properties"`
}

type connectionResponse struct {
	Namespace   string            `json:"namespace"`
	ID          string            `json:"id"`
	Type        string            `json:"type"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Properties  map[string]string `json:"properties,omitempty"`
	Created     int64             `json:"created"`
	Updated     int64             `json:"updated"`
}

type createConnectionResponse struct {
	ID string `json:"id"`
}

type connectionExistsResponse struct {
	ID     string `json:"id"`
	Exists bool   `json:"exists"`
}

func buildConnectionResponse(connection domain.Connection) connectionResponse {
	return connectionResponse{
		Namespace:   connection.Namespace.String(),
		ID:          connection.ID.String(),
		Type:        connection.Type.String(),
		Name:        connection.Name,
		Description: connection.Description,
		Properties:  connection.Properties,
		Created:     connection.Created,
		Updated:     connection.Updated,
	}
}

func (s *ConnectionManagementServer) requestLogger(req *http.Request, namespace domain.Namespace) *logrus.Entry {
	principal, _ := middlewares.GetPrincipal(req.Context())
	requestId := request_id.GetReqID(req.Context())
	return logger.Log.WithFields(logrus.Fields{
		"account":    principal.GetAccount(),
		"org_id":     principal.GetOrgID(),
		"namespace":  namespace,
		"request_id": requestId})
}

func (s *ConnectionManagementServer) handleConnectionCreate() http.HandlerFunc {

	return func(w http.ResponseWriter, req *http.Request) {

		namespace := domain.Namespace(mux.Vars(req)["namespace"])
		log := s.requestLogger(req, namespace)

		body := http.MaxBytesReader(w, req.Body, 1048576)

		var metaRequest connectionMetaRequest

		if err := decodeJSON(body, &metaRequest); err != nil {
			errorResponse := errorResponse{Title: "Unable to process json input",
				Status: http.StatusBadRequest,
				Detail: err.Error()}
			writeJSONResponse(w, errorResponse.Status, errorResponse)
			return
		}

		meta, err := buildConnectionMeta(metaRequest)
		if err != nil {
			errorResponse := errorResponse{Title: "Invalid connection type",
				Status: http.StatusBadRequest,
				Detail: err.Error()}
			writeJSONResponse(w, errorResponse.Status, errorResponse)
			return
		}

		id, err := s.catalog.Create(req.Context(), namespace, meta)
		if err != nil {
			var alreadyExists *connection_repository.ConnectionAlreadyExistsError
			if errors.As(err, &alreadyExists) {
				errorResponse := errorResponse{Title: alreadyExists.Error(),
					Status: http.StatusConflict,
					Detail: alreadyExists.Error()}
				writeJSONResponse(w, errorResponse.Status, errorResponse)
				return
			}
			logger.LogWithError(log, "Unable to create connection", err)
			errorResponse := errorResponse{Title: "Unable to create connection",
				Status: http.StatusInternalServerError,
				Detail: err.Error()}
			writeJSONResponse(w, errorResponse.Status, errorResponse)
			return
		}

		log.Infof("Created connection %s", id.ID)

		s.announceConnectionEvent(req, connection_repository.ConnectionCreated, id)

		writeJSONResponse(w, http.StatusCreated, createConnectionResponse{ID: id.ID.String()})
	}
}

func (s *ConnectionManagementServer) handleConnectionList() http.HandlerFunc {

	return func(w http.ResponseWriter, req *http.Request) {

		namespace := domain.Namespace(mux.Vars(req)["namespace"])
		log := s.requestLogger(req, namespace)

		filter := connection_repository.Predicate(connection_repository.AcceptAll)

		if typeFilter := req.URL.Query().Get("type"); typeFilter != "" {
			connectionType, err := domain.ParseConnectionType(typeFilter)
			if err != nil {
				errorResponse := errorResponse{Title: "Invalid connection type filter",
					Status: http.StatusBadRequest,
					Detail: err.Error()}
				writeJSONResponse(w, errorResponse.Status, errorResponse)
				return
			}

			filter = func(connection domain.Connection) bool {
				return connection.Type == connectionType
			}
		}

		connections, err := s.catalog.List(req.Context(), namespace, filter)
		if err != nil {
			logger.LogWithError(log, "Unable to list connections", err)
			errorResponse := errorResponse{Title: "Unable to list connections",
				Status: http.StatusInternalServerError,
				Detail: err.Error()}
			writeJSONResponse(w, errorResponse.Status, errorResponse)
			return
		}

		response := make([]connectionResponse, 0, len(connections))
		for _, connection := range connections {
			response = append(response, buildConnectionResponse(connection))
		}

		writeJSONResponse(w, http.StatusOK, response)
	}
}

func (s *ConnectionManagementServer) handleConnectionGet() http.HandlerFunc {

	return func(w http.ResponseWriter, req *http.Request) {

		vars := mux.Vars(req)
		namespace := domain.Namespace(vars["namespace"])
		id := domain.NamespacedID{Namespace: namespace, ID: domain.ConnectionID(vars["id"])}
		log := s.requestLogger(req, namespace)

		connection, err := s.catalog.Get(req.Context(), id)
		if err != nil {
			s.writeLookupFailure(w, log, id, err)
			return
		}

		writeJSONResponse(w, http.StatusOK, buildConnectionResponse(connection))
	}
}

func (s *ConnectionManagementServer) handleConnectionUpdate() http.HandlerFunc {

	return func(w http.ResponseWriter, req *http.Request) {

		vars := mux.Vars(req)
		namespace := domain.Namespace(vars["namespace"])
		id := domain.NamespacedID{Namespace: namespace, ID: domain.ConnectionID(vars["id"])}
		log := s.requestLogger(req, namespace)

		body := http.MaxBytesReader(w, req.Body, 1048576)

		var metaRequest connectionMetaRequest

		if err := decodeJSON(body, &metaRequest); err != nil {
			errorResponse := errorResponse{Title: "Unable to process json input",
				Status: http.StatusBadRequest,
				Detail: err.Error()}
			writeJSONResponse(w, errorResponse.Status, errorResponse)
			return
		}

		meta, err := buildConnectionMeta(metaRequest)
		if err != nil {
			errorResponse := errorResponse{Title: "Invalid connection type",
				Status: http.StatusBadRequest,
				Detail: err.Error()}
			writeJSONResponse(w, errorResponse.Status, errorResponse)
			return
		}

		if err := s.catalog.Update(req.Context(), id, meta); err != nil {
			s.writeLookupFailure(w, log, id, err)
			return
		}

		log.Infof("Updated connection %s", id.ID)

		s.announceConnectionEvent(req, connection_repository.ConnectionUpdated, id)

		writeJSONResponse(w, http.StatusOK, struct{}{})
	}
}

func (s *ConnectionManagementServer) handleConnectionDelete() http.HandlerFunc {

	return func(w http.ResponseWriter, req *http.Request) {

		vars := mux.Vars(req)
		namespace := domain.Namespace(vars["namespace"])
		id := domain.NamespacedID{Namespace: namespace, ID: domain.ConnectionID(vars["id"])}
		log := s.requestLogger(req, namespace)

		// Look the connection up first so the deletion event carries the
		// connection details.  Deleting an absent connection is a no-op.
		connection, err := s.catalog.Get(req.Context(), id)
		var notFound *connection_repository.ConnectionNotFoundError
		existed := !errors.As(err, &notFound)
		if err != nil && existed {
			s.writeLookupFailure(w, log, id, err)
			return
		}

		if err := s.catalog.Delete(req.Context(), id); err != nil {
			logger.LogWithError(log, "Unable to delete connection", err)
			errorResponse := errorResponse{Title: "Unable to delete connection",
				Status: http.StatusInternalServerError,
				Detail: err.Error()}
			writeJSONResponse(w, errorResponse.Status, errorResponse)
			return
		}

		if existed {
			log.Infof("Deleted connection %s", id.ID)
			if err := s.announcer.AnnounceEvent(req.Context(), connection_repository.ConnectionDeleted, connection); err != nil {
				logger.LogWithError(log, "Unable to announce connection event", err)
			}
		}

		writeJSONResponse(w, http.StatusNoContent, nil)
	}
}

func (s *ConnectionManagementServer) handleConnectionExists() http.HandlerFunc {

	return func(w http.ResponseWriter, req *http.Request) {

		namespace := domain.Namespace(mux.Vars(req)["namespace"])
		log := s.requestLogger(req, namespace)

		connectionName := req.URL.Query().Get("name")
		if connectionName == "" {
			errorResponse := errorResponse{Title: "Missing name query parameter",
				Status: http.StatusBadRequest,
				Detail: "The name query parameter is required"}
			writeJSONResponse(w, errorResponse.Status, errorResponse)
			return
		}

		exists, err := s.catalog.ConnectionExists(req.Context(), namespace, connectionName)
		if err != nil {
			logger.LogWithError(log, "Unable to check connection existence", err)
			errorResponse := errorResponse{Title: "Unable to check connection existence",
				Status: http.StatusInternalServerError,
				Detail: err.Error()}
			writeJSONResponse(w, errorResponse.Status, errorResponse)
			return
		}

		writeJSONResponse(w, http.StatusOK, connectionExistsResponse{
			ID:     connection_repository.DeriveConnectionID(connectionName).String(),
			Exists: exists,
		})
	}
}

func (s *ConnectionManagementServer) writeLookupFailure(w http.ResponseWriter, log *logrus.Entry, id domain.NamespacedID, err error) {
	var notFound *connection_repository.ConnectionNotFoundError
	if errors.As(err, &notFound) {
		errMsg := fmt.Sprintf("No connection found for (%s:%s)", id.Namespace, id.ID)
		log.Info(errMsg)
		errorResponse := errorResponse{Title: errMsg,
			Status: http.StatusNotFound,
			Detail: notFound.Error()}
		writeJSONResponse(w, errorResponse.Status, errorResponse)
		return
	}

	logger.LogWithError(log, "Unable to retrieve connection", err)
	errorResponse := errorResponse{Title: "Unable to retrieve connection",
		Status: http.StatusInternalServerError,
		Detail: err.Error()}
	writeJSONResponse(w, errorResponse.Status, errorResponse)
}

func (s *ConnectionManagementServer) announceConnectionEvent(req *http.Request, eventType connection_repository.EventType, id domain.NamespacedID) {
	connection, err := s.catalog.Get(req.Context(), id)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{"namespace": id.Namespace, "connection_id": id.ID, "error": err}).Error("Unable to load connection for event announcement")
		return
	}

	if err := s.announcer.AnnounceEvent(req.Context(), eventType, connection); err != nil {
		logger.Log.WithFields(logrus.Fields{"namespace": id.Namespace, "connection_id": id.ID, "error": err}).Error("Unable to announce connection event")
	}
}

func buildConnectionMeta(metaRequest connectionMetaRequest) (domain.ConnectionMeta, error) {
	connectionType, err := domain.ParseConnectionType(metaRequest.Type)
	if err != nil {
		return domain.ConnectionMeta{}, err
	}

	return domain.ConnectionMeta{
		Name:        metaRequest.Name,
		Type:        connectionType,
		Description: metaRequest.Description,
		Properties:  metaRequest.Properties,
	}, nil
}
