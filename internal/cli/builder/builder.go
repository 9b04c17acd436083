// Package builder translates raw command-line values into measurement requests.
package builder

import (
	"GlobalpingCLI/internal/cli/domain"
	"GlobalpingCLI/internal/shared/constants"
	"GlobalpingCLI/pkg/optional"
	"GlobalpingCLI/pkg/validator"
	"fmt"
	"maps"
)

// Build converts raw into the request variant for command. Only options the user
// supplied are set; enum values are validated and limit defaults to 1.
func Build(command domain.Command, raw domain.RawArguments) (*domain.MeasurementRequest, error) {
	if _, err := validator.ValidateCommand(string(command)); err != nil {
		return nil, err
	}

	limit, err := validator.ValidateLimit(raw.Limit.UnwrapOr(constants.DefaultLimit))
	if err != nil {
		return nil, err
	}

	options, err := buildOptions(command, raw)
	if err != nil {
		return nil, err
	}

	return &domain.MeasurementRequest{
		Type:      command,
		Target:    raw.Target,
		Limit:     limit,
		Locations: []domain.Location{ResolveLocation(raw.LocationTokens, raw.From)},
		Options:   options,
	}, nil
}

func buildOptions(command domain.Command, raw domain.RawArguments) (domain.MeasurementOptions, error) {
	switch command {
	case domain.PingCommand:
		return &domain.PingOptions{
			Packets: raw.Packets.Ptr(),
		}, nil

	case domain.TracerouteCommand:
		protocol, err := validated(command, validator.FieldProtocol, raw.Protocol)
		if err != nil {
			return nil, err
		}
		return &domain.TracerouteOptions{
			Protocol: protocol,
			Port:     raw.Port.Ptr(),
		}, nil

	case domain.DNSCommand:
		queryType, err := validated(command, validator.FieldQuery, raw.Query)
		if err != nil {
			return nil, err
		}
		protocol, err := validated(command, validator.FieldProtocol, raw.Protocol)
		if err != nil {
			return nil, err
		}

		opts := &domain.DNSOptions{
			Protocol: protocol,
			Port:     raw.Port.Ptr(),
			Resolver: raw.Resolver.Ptr(),
			Trace:    raw.Trace.Ptr(),
		}
		if queryType != nil {
			opts.Query = &domain.DNSQuery{Type: *queryType}
		}
		return opts, nil

	case domain.MTRCommand:
		protocol, err := validated(command, validator.FieldProtocol, raw.Protocol)
		if err != nil {
			return nil, err
		}
		return &domain.MTROptions{
			Protocol: protocol,
			Port:     raw.Port.Ptr(),
			Packets:  raw.Packets.Ptr(),
		}, nil

	case domain.HTTPCommand:
		protocol, err := validated(command, validator.FieldProtocol, raw.Protocol)
		if err != nil {
			return nil, err
		}
		method, err := validated(command, validator.FieldMethod, raw.Method)
		if err != nil {
			return nil, err
		}

		request := &domain.HTTPRequestOptions{
			Path:   raw.Path.Ptr(),
			Query:  raw.Query.Ptr(),
			Method: method,
			Host:   raw.Host.Ptr(),
		}
		if headers, ok := raw.Headers.Get(); ok && len(headers) > 0 {
			request.Headers = maps.Clone(headers)
		}

		opts := &domain.HTTPOptions{
			Port:     raw.Port.Ptr(),
			Protocol: protocol,
			Resolver: raw.Resolver.Ptr(),
		}
		if !request.IsEmpty() {
			opts.Request = request
		}
		return opts, nil
	}

	return nil, fmt.Errorf("no options for command %q", command)
}

// validated returns nil for an absent value, the validated value otherwise.
func validated(command domain.Command, field string, value optional.Value[string]) (*string, error) {
	v, ok := value.Get()
	if !ok {
		return nil, nil
	}
	v, err := validator.Validate(string(command), field, v)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
